// Package seed creates the demo account that owns the sample data of the other services.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/auth-service/internal/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	SampleUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	SampleEmail  = "demo@example.com"
)

// SamplePassword is the demo account password for local development only
const SamplePassword = "demo-password"

// Run creates the demo account unless it already exists
func Run(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	db = db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.User{}).Where("id = ?", SampleUserID).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		log.Info("Demo account already exists. Skipping seed.")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SamplePassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user := model.User{
		ID:          SampleUserID,
		Email:       SampleEmail,
		Password:    string(hash),
		DisplayName: "Demo Household",
	}
	if err := db.Create(&user).Error; err != nil {
		log.Error("An error occurred while seeding the database", zap.Error(err))
		return err
	}
	log.Info("Demo account created", zap.String("email", SampleEmail))
	return nil
}
