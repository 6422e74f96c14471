package models

import (
	"strings"
	"time"
)

// RoleType names the role a student account holds, e.g. "student" or "admin".
type RoleType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type roleTypeCreateRequest struct {
	Name string `json:"name" validate:"required,min=2,max=64"`
}

type roleTypePatch struct {
	Name *string `json:"name" validate:"omitnil,min=2,max=64"`
}

func (RoleType) ModelName() string { return "RoleType" }

func (r *RoleType) FromJSON(payload []byte) error {
	var req roleTypeCreateRequest
	if err := decodeCreate(payload, &req); err != nil {
		return err
	}

	r.Name = strings.ToLower(strings.TrimSpace(req.Name))
	return nil
}

func (r RoleType) UniqueKwargs() map[string]any {
	return map[string]any{"name": r.Name}
}

func (r *RoleType) Update(content map[string]any) bool {
	var patch roleTypePatch
	if err := decodePatch(content, &patch); err != nil {
		return false
	}

	if patch.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*patch.Name))
		patch.Name = &name
	}
	return assign(&r.Name, patch.Name)
}
