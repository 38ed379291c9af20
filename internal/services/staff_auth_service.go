package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type StaffLogin struct {
	AccessToken string            `json:"access_token"`
	ExpiresIn   int64             `json:"expires_in"`
	Staff       *models.StaffUser `json:"staff"`
}

// StaffAuthService authenticates admin and jury accounts with e-mail and password.
type StaffAuthService struct {
	repo   repository.Repository
	secret []byte
	expiry time.Duration
	now    Clock
}

func NewStaffAuthService(repo repository.Repository, secret string, expiry time.Duration, now Clock) *StaffAuthService {
	if now == nil {
		now = systemClock
	}
	return &StaffAuthService{repo: repo, secret: []byte(secret), expiry: expiry, now: now}
}

func (s *StaffAuthService) Login(ctx context.Context, email, password string) (*StaffLogin, error) {
	staff, err := s.repo.FindStaffByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issue(staff)
	if err != nil {
		return nil, err
	}
	return &StaffLogin{AccessToken: token, ExpiresIn: int64(s.expiry.Seconds()), Staff: staff}, nil
}

func (s *StaffAuthService) issue(staff *models.StaffUser) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   staff.ID.String(),
		"email": staff.Email,
		"role":  string(staff.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// CreateStaff provisions an account. Used by the operator CLI.
func (s *StaffAuthService) CreateStaff(ctx context.Context, email, password, fullName string, role models.StaffRole) (*models.StaffUser, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be admin or jury", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	staff := &models.StaffUser{
		ID:       uuid.New(),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hash),
		FullName: fullName,
		Role:     role,
	}
	if err := s.repo.CreateStaff(ctx, staff); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrStaffExists
		}
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return staff, nil
}
