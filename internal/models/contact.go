package models

type Contact struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255)" json:"email"`
	Phone    int64  `gorm:"not null" json:"phone"`
	Favorite bool   `gorm:"not null;default:false;index" json:"favorite"`
	Owner    string `gorm:"type:varchar(32);not null;index" json:"owner"`
}
