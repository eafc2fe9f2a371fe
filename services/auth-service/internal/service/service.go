// Package service registers users, checks credentials and issues tokens.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/gomicro/jwtutil"
	"github.com/suteetoe/homeorganizer/gomicro/metrics"
	"github.com/suteetoe/homeorganizer/services/auth-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/auth-service/pkg/api"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	db      *gorm.DB
	jwt     *jwtutil.JWTUtil
	metrics *metrics.OperationMetrics
	cost    int
}

// New creates a Service. m may be nil.
func New(db *gorm.DB, jwt *jwtutil.JWTUtil, m *metrics.OperationMetrics) *Service {
	return &Service{db: db, jwt: jwt, metrics: m, cost: bcrypt.DefaultCost}
}

func (s *Service) track(operation string) func() {
	start := time.Now()
	done := s.metrics.TrackDB("user_" + operation)
	return func() {
		done(start)
		s.metrics.Record("user", operation)
	}
}

// Register stores a new user and returns a token for it. Emails are
// compared case-insensitively; a taken email is a conflict.
func (s *Service) Register(ctx context.Context, req api.RegisterRequest) (api.TokenResponse, error) {
	defer s.track("register")()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return api.TokenResponse{}, apperr.Invalid("password", "must be at most 72 bytes")
	}
	if err != nil {
		return api.TokenResponse{}, fmt.Errorf("hash password: %w", err)
	}
	user := model.User{
		ID:          uuid.New(),
		Email:       normalizeEmail(req.Email),
		Password:    string(hash),
		DisplayName: strings.TrimSpace(req.DisplayName),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("email %s already registered", user.Email)
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("email %s already registered", user.Email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return api.TokenResponse{}, fmt.Errorf("register: %w", err)
	}
	return s.issue(&user)
}

// Login checks the password and issues a token
func (s *Service) Login(ctx context.Context, req api.LoginRequest) (api.TokenResponse, error) {
	defer s.track("login")()

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.metrics.Record("user", "login_failed")
		return api.TokenResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return api.TokenResponse{}, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.metrics.Record("user", "login_failed")
		return api.TokenResponse{}, ErrInvalidCredentials
	}
	return s.issue(&user)
}

// Profile returns the user behind a validated token
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (api.UserDto, error) {
	defer s.track("profile")()

	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return api.UserDto{}, apperr.NotFound("user", userID)
	}
	if err != nil {
		return api.UserDto{}, fmt.Errorf("find user %s: %w", userID, err)
	}
	return user.ToDto(), nil
}

func (s *Service) issue(user *model.User) (api.TokenResponse, error) {
	token, err := s.jwt.GenerateToken(user.Email, user.ID, user.DisplayName)
	if err != nil {
		return api.TokenResponse{}, fmt.Errorf("generate token: %w", err)
	}
	return api.TokenResponse{Token: token, User: user.ToDto()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
