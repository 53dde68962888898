package models

type User struct {
	BaseModel
	Email             string       `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash      string       `gorm:"not null"`
	Subscription      Subscription `gorm:"type:varchar(20);not null;default:'starter'"`
	Verify            bool         `gorm:"not null;default:false"`
	VerificationToken *string      `gorm:"type:varchar(64);index"`
	Token             *string      `gorm:"type:text"`
	AvatarURL         string       `gorm:"type:varchar(512)"`

	Contacts []Contact `gorm:"foreignKey:Owner;constraint:OnDelete:CASCADE"`
}

// HasSession проверяет, что предъявленный токен совпадает с сохраненным
func (u *User) HasSession(token string) bool {
	return u.Token != nil && *u.Token != "" && *u.Token == token
}
