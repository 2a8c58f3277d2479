package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/collegekit/feedback-api/config"
	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/errdefs"
	"github.com/collegekit/feedback-api/internal/model"
	"github.com/collegekit/feedback-api/internal/repository"
)

// AuthService signs in admin users and issues the HS256 bearer tokens the
// admin middleware verifies.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// EnsureBootstrapAdmin creates the configured first admin user if no user
	// with that email exists. Best effort: failures are logged, never fatal.
	EnsureBootstrapAdmin(ctx context.Context)
}

type authService struct {
	adminRepo repository.AdminUserRepository
	secret    []byte
	tokenTTL  time.Duration
	bootstrap config.Bootstrap
}

func NewAuthService(adminRepo repository.AdminUserRepository, cfg *config.Config) AuthService {
	return &authService{
		adminRepo: adminRepo,
		secret:    []byte(cfg.Auth.JWTSecret),
		tokenTTL:  cfg.Auth.TokenTTL,
		bootstrap: cfg.Bootstrap,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", errdefs.ErrUnauthorized)
		}
		return nil, fmt.Errorf("load admin user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn().Str("email", req.Email).Msg("Login: wrong password")
		return nil, fmt.Errorf("%w: invalid credentials", errdefs.ErrUnauthorized)
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"email":      user.Email,
		"role":       user.Role,
		"college_id": user.CollegeID,
		"iat":        now.Unix(),
		"exp":        expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	log.Info().Uint("adminID", user.ID).Uint("collegeID", user.CollegeID).Msg("Admin signed in")
	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		Admin: dto.AdminUserDTO{
			ID:        user.ID,
			CollegeID: user.CollegeID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      user.Role,
		},
	}, nil
}

func (s *authService) EnsureBootstrapAdmin(ctx context.Context) {
	if s.bootstrap.AdminEmail == "" || s.bootstrap.AdminPassword == "" {
		return
	}
	if _, err := s.adminRepo.FindByEmail(ctx, s.bootstrap.AdminEmail); err == nil {
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Err(err).Msg("Bootstrap admin: lookup failed, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.bootstrap.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Warn().Err(err).Msg("Bootstrap admin: hashing failed, skipping")
		return
	}
	user := model.AdminUser{
		CollegeID:    s.bootstrap.CollegeID,
		Name:         s.bootstrap.AdminName,
		Email:        s.bootstrap.AdminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := s.adminRepo.Create(ctx, &user); err != nil {
		log.Warn().Err(err).Str("email", s.bootstrap.AdminEmail).Msg("Bootstrap admin: create failed, skipping")
		return
	}
	log.Info().Str("email", user.Email).Uint("collegeID", user.CollegeID).Msg("Bootstrap admin user created")
}
