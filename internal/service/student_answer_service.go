package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/noah-isme/inzone-go-api/internal/models"
	"github.com/noah-isme/inzone-go-api/internal/repository"
)

// StudentAnswerService adds batch submission of answers on top of the generic operations.
type StudentAnswerService interface {
	QueryService[models.StudentAnswer]
	AddBatch(ctx context.Context, forced map[string]string, payload []byte) (string, error)
}

type studentAnswerService struct {
	*queryService[models.StudentAnswer, *models.StudentAnswer]
}

// NewStudentAnswerService constructs the student answer service.
func NewStudentAnswerService(repo repository.Repository[models.StudentAnswer], opts QueryOptions, logger zerolog.Logger) StudentAnswerService {
	return &studentAnswerService{
		queryService: newQueryService[models.StudentAnswer, *models.StudentAnswer](repo, opts, logger),
	}
}

// AddBatch inserts every answer in payload within one transaction. Each item
// receives the forced field values when it omits them and is rejected when it
// carries a different value. Any invalid item rejects the whole batch.
func (s *studentAnswerService) AddBatch(ctx context.Context, forced map[string]string, payload []byte) (message string, err error) {
	ctx, span := s.start(ctx, "add_batch")
	defer func() { s.finish(span, "add_batch", err) }()

	kwargs := make(map[string]any, len(forced))
	for key, value := range forced {
		kwargs[key] = value
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var decoded interface{}
	if err := decoder.Decode(&decoded); err != nil {
		return "", &QueryError{Kind: ErrInvalidInput, Message: "Invalid input: not json"}
	}

	list, ok := decoded.([]interface{})
	if !ok {
		return "", &QueryError{Kind: ErrNotList, Message: "Invalid input: not list"}
	}

	answers := make([]models.StudentAnswer, 0, len(list))
	for _, entry := range list {
		content, ok := entry.(map[string]interface{})
		if !ok {
			return "", &QueryError{Kind: ErrInvalidInput, Message: "Invalid input: list items must be objects"}
		}

		for key, want := range forced {
			if current, present := content[key]; present && current != nil && fmt.Sprint(current) != want {
				return "", newQueryError(ErrFieldMismatch, "Invalid input: got %s with not %s", s.model, FormatKwargs(forced))
			}
			content[key] = forcedValue(want)
		}

		body, err := json.Marshal(content)
		if err != nil {
			return "", err
		}

		var answer models.StudentAnswer
		if err := answer.FromJSON(body); err != nil {
			return "", &QueryError{Kind: ErrInvalidInput, Message: err.Error()}
		}
		answers = append(answers, answer)
	}

	if err := s.repo.CreateBatch(ctx, answers); err != nil {
		return "", err
	}

	if len(answers) > 0 {
		s.committed(ctx, "created", kwargs, len(answers))
	}
	return fmt.Sprintf("%d new %s added with %s", len(answers), s.model, FormatKwargs(forced)), nil
}

// forcedValue keeps numeric path values numeric so they decode into id fields.
func forcedValue(value string) interface{} {
	if _, err := strconv.ParseUint(value, 10, 64); err == nil {
		return json.Number(value)
	}
	return value
}
