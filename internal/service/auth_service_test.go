package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/inzone-go-api/internal/dto"
	"github.com/noah-isme/inzone-go-api/internal/models"
	"github.com/noah-isme/inzone-go-api/internal/repository"
)

func TestAuthServiceLogin(t *testing.T) {
	db := setupServiceTestDB(t)
	ctx := context.Background()

	role := models.RoleType{Name: "admin"}
	require.NoError(t, db.Create(&role).Error)

	student := models.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", RoleTypeID: role.ID}
	require.NoError(t, student.SetPassword("correct-horse"))
	require.NoError(t, db.Create(&student).Error)

	svc := NewAuthService(
		repository.New[models.Student](db),
		repository.New[models.RoleType](db),
		validator.New(validator.WithRequiredStructEnabled()),
		"secret",
		time.Minute,
		zerolog.Nop(),
	)

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "ADA@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, student.ID, resp.StudentID)
	require.Equal(t, "admin", resp.Role)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "admin", claims["role"])

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "wrong-horse"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
}
