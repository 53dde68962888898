package models

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel - общий первичный ключ и таймстемпы.
// ID - 32 hex-символа (байты UUID v4): буквенно-цифровой и одинаковый для всех драйверов.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(32);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate выставляет ID, если он не задан заранее
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}

func NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
