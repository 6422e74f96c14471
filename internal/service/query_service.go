package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/inzone-go-api/internal/events"
	"github.com/noah-isme/inzone-go-api/internal/models"
	"github.com/noah-isme/inzone-go-api/internal/observability"
	"github.com/noah-isme/inzone-go-api/internal/repository"
)

const defaultCacheTTL = 5 * time.Minute

// QueryOptions carries the optional collaborators of a query service.
type QueryOptions struct {
	Cache    *redis.Client
	CacheTTL time.Duration
	Events   events.Publisher
}

// QueryService exposes the generic read/write operations for one entity type.
type QueryService[T any] interface {
	ModelName() string
	GetAll(ctx context.Context) ([]T, error)
	GetFirst(ctx context.Context, filter repository.Filter) (T, error)
	GetAllBy(ctx context.Context, filter repository.Filter) ([]T, error)
	GetAllWhere(ctx context.Context, clause string, args ...any) ([]T, error)
	Add(ctx context.Context, payload []byte) (string, error)
	DeleteFirst(ctx context.Context, filter repository.Filter) (string, error)
	UpdateFirst(ctx context.Context, filter repository.Filter, content map[string]any) (string, error)
	UpdateAll(ctx context.Context, filter repository.Filter, content map[string]any) (string, error)
}

type queryService[T any, PT models.EntityPtr[T]] struct {
	repo   repository.Repository[T]
	cache  *redis.Client
	ttl    time.Duration
	events events.Publisher
	logger zerolog.Logger
	tracer trace.Tracer
	model  string
}

// NewQueryService builds the query service for entity type T.
func NewQueryService[T any, PT models.EntityPtr[T]](repo repository.Repository[T], opts QueryOptions, logger zerolog.Logger) QueryService[T] {
	return newQueryService[T, PT](repo, opts, logger)
}

func newQueryService[T any, PT models.EntityPtr[T]](repo repository.Repository[T], opts QueryOptions, logger zerolog.Logger) *queryService[T, PT] {
	model := PT(new(T)).ModelName()

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	publisher := opts.Events
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &queryService[T, PT]{
		repo:   repo,
		cache:  opts.Cache,
		ttl:    ttl,
		events: publisher,
		logger: logger.With().Str("component", "query_service").Str("model", model).Logger(),
		tracer: otel.Tracer("github.com/noah-isme/inzone-go-api/internal/service/query"),
		model:  model,
	}
}

func (s *queryService[T, PT]) ModelName() string {
	return s.model
}

func (s *queryService[T, PT]) GetAll(ctx context.Context) (items []T, err error) {
	ctx, span := s.start(ctx, "get_all")
	defer func() { s.finish(span, "get_all", err) }()

	if cached, ok := s.cachedList(ctx); ok {
		return cached, nil
	}

	items, err = s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	s.storeList(ctx, items)
	return items, nil
}

func (s *queryService[T, PT]) GetFirst(ctx context.Context, filter repository.Filter) (item T, err error) {
	ctx, span := s.start(ctx, "get_first")
	defer func() { s.finish(span, "get_first", err) }()

	item, err = s.repo.FirstBy(ctx, filter)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, newQueryError(ErrNotFound, "Unable to find any %s with filter %s", s.model, FormatKwargs(filter))
		}
		return item, err
	}
	return item, nil
}

func (s *queryService[T, PT]) GetAllBy(ctx context.Context, filter repository.Filter) (items []T, err error) {
	ctx, span := s.start(ctx, "get_all_by")
	defer func() { s.finish(span, "get_all_by", err) }()

	items, err = s.repo.FindBy(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, newQueryError(ErrNotFound, "Unable to find any %s with filter %s", s.model, FormatKwargs(filter))
	}
	return items, nil
}

func (s *queryService[T, PT]) GetAllWhere(ctx context.Context, clause string, args ...any) (items []T, err error) {
	ctx, span := s.start(ctx, "get_all_where")
	defer func() { s.finish(span, "get_all_where", err) }()

	items, err = s.repo.FindWhere(ctx, clause, args...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, newQueryError(ErrNotFound, "Unable to find any %s with filter %s", s.model, clause)
	}
	return items, nil
}

func (s *queryService[T, PT]) Add(ctx context.Context, payload []byte) (message string, err error) {
	ctx, span := s.start(ctx, "add")
	defer func() { s.finish(span, "add", err) }()

	var item T
	if err := PT(&item).FromJSON(payload); err != nil {
		return "", &QueryError{Kind: ErrInvalidInput, Message: err.Error()}
	}

	kwargs := PT(&item).UniqueKwargs()
	_, err = s.repo.FirstBy(ctx, kwargs)
	switch {
	case err == nil:
		return "", newQueryError(ErrAlreadyExists, "Bad Request: %s with %s already exists", s.model, FormatKwargs(kwargs))
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", err
	}

	if err := s.repo.Create(ctx, &item); err != nil {
		return "", err
	}

	s.committed(ctx, "created", kwargs, 1)
	return fmt.Sprintf("A new %s added with %s", s.model, FormatKwargs(kwargs)), nil
}

func (s *queryService[T, PT]) DeleteFirst(ctx context.Context, filter repository.Filter) (message string, err error) {
	ctx, span := s.start(ctx, "delete_first")
	defer func() { s.finish(span, "delete_first", err) }()

	if len(filter) == 0 {
		return "", ErrFilterRequired
	}

	item, err := s.repo.FirstBy(ctx, filter)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", newQueryError(ErrNotFound, "Unable to find any %s with %s", s.model, FormatKwargs(filter))
		}
		return "", err
	}

	if err := s.repo.Delete(ctx, &item); err != nil {
		return "", err
	}

	s.committed(ctx, "deleted", filter, 1)
	return fmt.Sprintf("%s with %s is deleted", s.model, FormatKwargs(filter)), nil
}

func (s *queryService[T, PT]) UpdateFirst(ctx context.Context, filter repository.Filter, content map[string]any) (message string, err error) {
	ctx, span := s.start(ctx, "update_first")
	defer func() { s.finish(span, "update_first", err) }()

	item, err := s.repo.FirstBy(ctx, filter)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", newQueryError(ErrNotFound, "Unable to find any %s with %s", s.model, FormatKwargs(filter))
		}
		return "", err
	}

	if !PT(&item).Update(content) {
		return "", newQueryError(ErrNothingToUpdate, "Bad Request: There is nothing to update for %s with %s", s.model, FormatKwargs(filter))
	}

	if err := s.repo.Save(ctx, &item); err != nil {
		return "", err
	}

	s.committed(ctx, "updated", filter, 1)
	return fmt.Sprintf("%s with %s is updated", s.model, FormatKwargs(filter)), nil
}

func (s *queryService[T, PT]) UpdateAll(ctx context.Context, filter repository.Filter, content map[string]any) (message string, err error) {
	ctx, span := s.start(ctx, "update_all")
	defer func() { s.finish(span, "update_all", err) }()

	if len(filter) == 0 {
		return "", ErrFilterRequired
	}

	matched, err := s.repo.UpdateEach(ctx, filter, func(item *T) bool {
		return PT(item).Update(content)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", newQueryError(ErrNotFound, "Unable to find any %s with %s", s.model, FormatKwargs(filter))
		}
		return "", err
	}

	s.committed(ctx, "updated", filter, matched)
	return fmt.Sprintf("%s with %s is updated", s.model, FormatKwargs(filter)), nil
}

func (s *queryService[T, PT]) start(ctx context.Context, operation string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "query."+operation, trace.WithAttributes(
		attribute.String("query.model", s.model),
	))
}

func (s *queryService[T, PT]) finish(span trace.Span, operation string, err error) {
	defer span.End()

	outcome := "ok"
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
		span.SetStatus(codes.Error, "not found")
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrNothingToUpdate):
		outcome = "rejected"
		span.SetStatus(codes.Error, "rejected")
	default:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
	}

	observability.QueryOperations().WithLabelValues(s.model, operation, outcome).Inc()
}

// committed runs the side effects of a successful write.
func (s *queryService[T, PT]) committed(ctx context.Context, action string, kwargs map[string]any, count int) {
	s.invalidateList(ctx)

	event := events.Event{
		Model:  s.model,
		Action: action,
		Kwargs: kwargs,
		Count:  count,
		At:     time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to publish change event")
	}

	s.logger.Info().Str("action", action).Int("count", count).Str("kwargs", FormatKwargs(kwargs)).Msg("records changed")
}

func (s *queryService[T, PT]) cacheKey() string {
	return fmt.Sprintf("query:%s:all", strings.ToLower(s.model))
}

func (s *queryService[T, PT]) cachedList(ctx context.Context) ([]T, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, s.cacheKey()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read list cache")
		}
		observability.QueryCache().WithLabelValues(s.model, "miss").Inc()
		return nil, false
	}

	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable list cache entry")
		observability.QueryCache().WithLabelValues(s.model, "miss").Inc()
		return nil, false
	}

	observability.QueryCache().WithLabelValues(s.model, "hit").Inc()
	return items, true
}

func (s *queryService[T, PT]) storeList(ctx context.Context, items []T) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(), payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache list")
	}
}

func (s *queryService[T, PT]) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cacheKey()).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate list cache")
	}
}
