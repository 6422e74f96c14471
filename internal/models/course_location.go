package models

import (
	"strings"
	"time"
)

// CourseLocation is a venue where courses take place.
type CourseLocation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null;uniqueIndex:idx_course_location_name_city" json:"name"`
	Address   string    `gorm:"size:255" json:"address"`
	City      string    `gorm:"size:128;not null;uniqueIndex:idx_course_location_name_city" json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type courseLocationCreateRequest struct {
	Name    string `json:"name" validate:"required,max=128"`
	Address string `json:"address" validate:"omitempty,max=255"`
	City    string `json:"city" validate:"required,max=128"`
}

type courseLocationPatch struct {
	Name    *string `json:"name" validate:"omitnil,min=1,max=128"`
	Address *string `json:"address" validate:"omitnil,max=255"`
	City    *string `json:"city" validate:"omitnil,min=1,max=128"`
}

func (CourseLocation) ModelName() string { return "CourseLocation" }

func (l *CourseLocation) FromJSON(payload []byte) error {
	var req courseLocationCreateRequest
	if err := decodeCreate(payload, &req); err != nil {
		return err
	}

	l.Name = strings.TrimSpace(req.Name)
	l.Address = strings.TrimSpace(req.Address)
	l.City = strings.TrimSpace(req.City)
	return nil
}

func (l CourseLocation) UniqueKwargs() map[string]any {
	return map[string]any{"name": l.Name, "city": l.City}
}

func (l *CourseLocation) Update(content map[string]any) bool {
	var patch courseLocationPatch
	if err := decodePatch(content, &patch); err != nil {
		return false
	}

	changed := assign(&l.Name, patch.Name)
	changed = assign(&l.Address, patch.Address) || changed
	changed = assign(&l.City, patch.City) || changed
	return changed
}
