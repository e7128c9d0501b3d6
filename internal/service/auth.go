package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cookio/cookio/backend/internal/auth"
	"github.com/cookio/cookio/backend/internal/model"
	"github.com/cookio/cookio/backend/internal/types"
)

// ErrUserNotFound is returned when a session references a deleted user.
var ErrUserNotFound = errors.New("user not found")

const tokenLifetime = 24 * time.Hour

// AuthService mints and validates session tokens for users signed in
// through the external identity provider.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// UpsertGoogleUser finds or creates the account for a Google profile,
// refreshing the display fields on every sign-in.
func (s *AuthService) UpsertGoogleUser(ctx context.Context, profile *auth.GoogleUser) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "google_id = ?", profile.Sub).Error
	switch {
	case err == nil:
		user.Name = profile.Name
		user.Email = profile.Email
		user.AvatarURL = profile.Picture
		if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, fmt.Errorf("updating user: %w", err)
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			GoogleID:  profile.Sub,
			Name:      profile.Name,
			Email:     profile.Email,
			AvatarURL: profile.Picture,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("looking up user: %w", err)
	}
}

// GetUser fetches a user by id.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &user, nil
}

// GenerateToken mints a session JWT for a user.
func (s *AuthService) GenerateToken(userID uuid.UUID, name string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"name":    name,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a session JWT.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	name, _ := claims["name"].(string)
	return &types.TokenClaims{
		UserID: userID,
		Name:   name,
	}, nil
}
