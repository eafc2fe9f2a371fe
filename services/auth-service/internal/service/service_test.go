package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/gomicro/database/dbtest"
	"github.com/suteetoe/homeorganizer/gomicro/jwtutil"
	"github.com/suteetoe/homeorganizer/gomicro/metrics"
	"github.com/suteetoe/homeorganizer/services/auth-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/auth-service/pkg/api"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *jwtutil.JWTUtil, *metrics.OperationMetrics) {
	t.Helper()
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	ops := metrics.NewOperationMetrics("auth_service", prometheus.NewRegistry())
	svc := New(dbtest.New(t, model.Models()...), jwt, ops)
	svc.cost = bcrypt.MinCost
	return svc, jwt, ops
}

func TestRegisterIssuesTokenForNewUser(t *testing.T) {
	svc, jwt, _ := newService(t)

	resp, err := svc.Register(context.Background(), api.RegisterRequest{
		Email:       "  Alex@Example.com ",
		Password:    "correct horse",
		DisplayName: "Alex",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.User.ID)
	assert.Equal(t, "alex@example.com", resp.User.Email)
	assert.Equal(t, "Alex", resp.User.DisplayName)

	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alex@example.com", claims.Email)
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	svc, _, _ := newService(t)

	resp, err := svc.Register(context.Background(), api.RegisterRequest{Email: "sam@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	var stored model.User
	require.NoError(t, svc.db.First(&stored, "id = ?", resp.User.ID).Error)
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, api.RegisterRequest{Email: "sam@example.com", Password: "first-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, api.RegisterRequest{Email: "SAM@example.com", Password: "second-pass"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRegisterConflictsWhenConcurrentInsertWins(t *testing.T) {
	svc, _, _ := newService(t)

	// a rival registration lands between the email check and our insert
	var raced bool
	require.NoError(t, svc.db.Callback().Create().Before("gorm:create").Register("test:rival_register", func(tx *gorm.DB) {
		if raced {
			return
		}
		raced = true
		rival := model.User{ID: uuid.New(), Email: "race@example.com", Password: "hash"}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error)
	}))

	_, err := svc.Register(context.Background(), api.RegisterRequest{Email: "race@example.com", Password: "long-enough"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.True(t, raced)
}

func TestRegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	svc, _, _ := newService(t)

	// 40 runes, 80 bytes
	_, err := svc.Register(context.Background(), api.RegisterRequest{Email: "eve@example.com", Password: strings.Repeat("é", 40)})

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
	assert.Equal(t, 400, apperr.Status(err))
}

func TestLogin(t *testing.T) {
	svc, _, ops := newService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, api.RegisterRequest{Email: "jo@example.com", Password: "right-password"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "jo@example.com", "right-password", nil},
		{"email case ignored", "JO@example.com", "right-password", nil},
		{"wrong password", "jo@example.com", "wrong-password", ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "right-password", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(ctx, api.LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.User.ID, resp.User.ID)
			assert.NotEmpty(t, resp.Token)
		})
	}
	assert.Equal(t, 2.0, ops.Count("user", "login_failed"))
}

func TestProfile(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, api.RegisterRequest{Email: "kim@example.com", Password: "password1", DisplayName: "Kim"})
	require.NoError(t, err)

	user, err := svc.Profile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kim", user.DisplayName)

	_, err = svc.Profile(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
