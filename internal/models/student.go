package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Student represents a learner account.
type Student struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:128;not null" json:"first_name"`
	LastName     string    `gorm:"size:128;not null" json:"last_name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleTypeID   uint      `gorm:"index" json:"role_type_id"`
	LanguageID   uint      `gorm:"index" json:"language_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type studentCreateRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=128"`
	LastName   string `json:"last_name" validate:"required,max=128"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	RoleTypeID uint   `json:"role_type_id"`
	LanguageID uint   `json:"language_id"`
}

type studentPatch struct {
	FirstName  *string `json:"first_name" validate:"omitnil,min=1,max=128"`
	LastName   *string `json:"last_name" validate:"omitnil,min=1,max=128"`
	Email      *string `json:"email" validate:"omitnil,email"`
	Password   *string `json:"password" validate:"omitnil,min=8,max=72"`
	RoleTypeID *uint   `json:"role_type_id"`
	LanguageID *uint   `json:"language_id"`
}

func (Student) ModelName() string { return "Student" }

func (s *Student) FromJSON(payload []byte) error {
	var req studentCreateRequest
	if err := decodeCreate(payload, &req); err != nil {
		return err
	}

	if err := s.SetPassword(req.Password); err != nil {
		return fmt.Errorf("Invalid input: %v", err)
	}

	s.FirstName = strings.TrimSpace(req.FirstName)
	s.LastName = strings.TrimSpace(req.LastName)
	s.Email = normalizeEmail(req.Email)
	s.RoleTypeID = req.RoleTypeID
	s.LanguageID = req.LanguageID
	return nil
}

func (s Student) UniqueKwargs() map[string]any {
	return map[string]any{"email": s.Email}
}

func (s *Student) Update(content map[string]any) bool {
	var patch studentPatch
	if err := decodePatch(content, &patch); err != nil {
		return false
	}

	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		patch.Email = &email
	}

	changed := false
	if patch.Password != nil && !s.CheckPassword(*patch.Password) {
		if err := s.SetPassword(*patch.Password); err != nil {
			return false
		}
		changed = true
	}

	changed = assign(&s.FirstName, patch.FirstName) || changed
	changed = assign(&s.LastName, patch.LastName) || changed
	changed = assign(&s.Email, patch.Email) || changed
	changed = assign(&s.RoleTypeID, patch.RoleTypeID) || changed
	changed = assign(&s.LanguageID, patch.LanguageID) || changed

	return changed
}

// SetPassword stores the bcrypt hash of password.
func (s *Student) SetPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (s Student) CheckPassword(password string) bool {
	if s.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
