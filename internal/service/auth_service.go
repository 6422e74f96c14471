package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/inzone-go-api/internal/dto"
	"github.com/noah-isme/inzone-go-api/internal/models"
	"github.com/noah-isme/inzone-go-api/internal/repository"
)

const (
	defaultTokenTTL = time.Hour
	defaultRole     = "student"
)

// ErrInvalidCredentials indicates an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates students and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	students  repository.Repository[models.Student]
	roles     repository.Repository[models.RoleType]
	validator *validator.Validate
	secret    []byte
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(students repository.Repository[models.Student], roles repository.Repository[models.RoleType], validate *validator.Validate, secret string, ttl time.Duration, logger zerolog.Logger) AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &authService{
		students:  students,
		roles:     roles,
		validator: validate,
		secret:    []byte(secret),
		ttl:       ttl,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	student, err := s.students.FirstBy(ctx, repository.Filter{"email": email})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if !student.CheckPassword(payload.Password) {
		s.logger.Warn().Uint("student_id", student.ID).Msg("rejected login with wrong password")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	role, err := s.roleName(ctx, student.RoleTypeID)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(student.ID), 10),
		"role": role,
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("role", role).Msg("student logged in")

	return dto.LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		StudentID:   student.ID,
		Role:        role,
	}, nil
}

func (s *authService) roleName(ctx context.Context, roleTypeID uint) (string, error) {
	if roleTypeID == 0 {
		return defaultRole, nil
	}

	role, err := s.roles.FirstBy(ctx, repository.Filter{"id": roleTypeID})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultRole, nil
		}
		return "", err
	}
	return role.Name, nil
}
