package models

import (
	"errors"
	"strings"
	"time"
)

// Course is a scheduled course offered at a location in a given language.
type Course struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	LanguageID  uint       `gorm:"index" json:"language_id"`
	LocationID  uint       `gorm:"index" json:"location_id"`
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type courseCreateRequest struct {
	Name        string     `json:"name" validate:"required,min=3,max=255"`
	Description string     `json:"description"`
	LanguageID  uint       `json:"language_id"`
	LocationID  uint       `json:"location_id"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
}

type coursePatch struct {
	Name        *string    `json:"name" validate:"omitnil,min=3,max=255"`
	Description *string    `json:"description"`
	LanguageID  *uint      `json:"language_id"`
	LocationID  *uint      `json:"location_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

var errCourseEndsBeforeStart = errors.New("Invalid input: end_date must not be before start_date")

func (Course) ModelName() string { return "Course" }

func (c *Course) FromJSON(payload []byte) error {
	var req courseCreateRequest
	if err := decodeCreate(payload, &req); err != nil {
		return err
	}

	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return errCourseEndsBeforeStart
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Description = sanitizeText(req.Description)
	c.LanguageID = req.LanguageID
	c.LocationID = req.LocationID
	c.StartDate = req.StartDate.UTC()
	if req.EndDate != nil {
		end := req.EndDate.UTC()
		c.EndDate = &end
	}
	return nil
}

func (c Course) UniqueKwargs() map[string]any {
	return map[string]any{"name": c.Name}
}

func (c *Course) Update(content map[string]any) bool {
	var patch coursePatch
	if err := decodePatch(content, &patch); err != nil {
		return false
	}

	if patch.Description != nil {
		description := sanitizeText(*patch.Description)
		patch.Description = &description
	}

	start := c.StartDate
	if patch.StartDate != nil {
		start = patch.StartDate.UTC()
	}
	end := c.EndDate
	if patch.EndDate != nil {
		value := patch.EndDate.UTC()
		end = &value
	}
	if end != nil && end.Before(start) {
		return false
	}

	changed := assign(&c.Name, patch.Name)
	changed = assign(&c.Description, patch.Description) || changed
	changed = assign(&c.LanguageID, patch.LanguageID) || changed
	changed = assign(&c.LocationID, patch.LocationID) || changed

	if !start.Equal(c.StartDate) {
		c.StartDate = start
		changed = true
	}
	if end != nil && (c.EndDate == nil || !end.Equal(*c.EndDate)) {
		c.EndDate = end
		changed = true
	}

	return changed
}
