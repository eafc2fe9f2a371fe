package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/auth-service/pkg/api"
)

// User represents the user model stored in the database
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email       string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Password    string    `gorm:"type:varchar(255);not null"`
	DisplayName string    `gorm:"type:varchar(100)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func Models() []interface{} {
	return []interface{}{&User{}}
}

func (u *User) ToDto() api.UserDto {
	return api.UserDto{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
