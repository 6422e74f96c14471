package models

import (
	"reflect"
	"time"

	"gorm.io/datatypes"
)

// StudentAnswer is a student's answer to one question of a course questionnaire.
type StudentAnswer struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	StudentID  uint              `gorm:"not null;uniqueIndex:idx_student_answer_identity" json:"student_id"`
	CourseID   uint              `gorm:"not null;uniqueIndex:idx_student_answer_identity" json:"course_id"`
	QuestionID uint              `gorm:"not null;uniqueIndex:idx_student_answer_identity" json:"question_id"`
	Answer     string            `gorm:"type:text;not null" json:"answer"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type studentAnswerCreateRequest struct {
	StudentID  uint                   `json:"student_id" validate:"required"`
	CourseID   uint                   `json:"course_id" validate:"required"`
	QuestionID uint                   `json:"question_id" validate:"required"`
	Answer     string                 `json:"answer" validate:"required"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type studentAnswerPatch struct {
	Answer   *string                `json:"answer" validate:"omitnil,min=1"`
	Metadata map[string]interface{} `json:"metadata"`
}

func (StudentAnswer) ModelName() string { return "StudentAnswer" }

func (a *StudentAnswer) FromJSON(payload []byte) error {
	var req studentAnswerCreateRequest
	if err := decodeCreate(payload, &req); err != nil {
		return err
	}

	a.StudentID = req.StudentID
	a.CourseID = req.CourseID
	a.QuestionID = req.QuestionID
	a.Answer = sanitizeText(req.Answer)
	a.Metadata = datatypes.JSONMap{}
	for key, value := range req.Metadata {
		a.Metadata[key] = value
	}
	return nil
}

func (a StudentAnswer) UniqueKwargs() map[string]any {
	return map[string]any{
		"student_id":  a.StudentID,
		"course_id":   a.CourseID,
		"question_id": a.QuestionID,
	}
}

func (a *StudentAnswer) Update(content map[string]any) bool {
	var patch studentAnswerPatch
	if err := decodePatch(content, &patch); err != nil {
		return false
	}

	if patch.Answer != nil {
		answer := sanitizeText(*patch.Answer)
		patch.Answer = &answer
	}

	changed := assign(&a.Answer, patch.Answer)
	if patch.Metadata != nil {
		metadata := datatypes.JSONMap(patch.Metadata)
		if !reflect.DeepEqual(a.Metadata, metadata) {
			a.Metadata = metadata
			changed = true
		}
	}
	return changed
}
