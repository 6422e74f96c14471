package models

import (
	"strings"
	"time"
)

// SupportedLanguage is a language the course content is offered in.
type SupportedLanguage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:8;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type supportedLanguageCreateRequest struct {
	Code string `json:"code" validate:"required,min=2,max=8"`
	Name string `json:"name" validate:"required,max=64"`
}

type supportedLanguagePatch struct {
	Code *string `json:"code" validate:"omitnil,min=2,max=8"`
	Name *string `json:"name" validate:"omitnil,min=1,max=64"`
}

func (SupportedLanguage) ModelName() string { return "SupportedLanguage" }

func (l *SupportedLanguage) FromJSON(payload []byte) error {
	var req supportedLanguageCreateRequest
	if err := decodeCreate(payload, &req); err != nil {
		return err
	}

	l.Code = strings.ToLower(strings.TrimSpace(req.Code))
	l.Name = strings.TrimSpace(req.Name)
	return nil
}

func (l SupportedLanguage) UniqueKwargs() map[string]any {
	return map[string]any{"code": l.Code}
}

func (l *SupportedLanguage) Update(content map[string]any) bool {
	var patch supportedLanguagePatch
	if err := decodePatch(content, &patch); err != nil {
		return false
	}

	if patch.Code != nil {
		code := strings.ToLower(strings.TrimSpace(*patch.Code))
		patch.Code = &code
	}

	changed := assign(&l.Code, patch.Code)
	changed = assign(&l.Name, patch.Name) || changed
	return changed
}
