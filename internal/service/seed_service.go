package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/inzone-go-api/internal/models"
	"github.com/noah-isme/inzone-go-api/internal/repository"
)

// DefaultRoleTypes are the roles every deployment starts with.
var DefaultRoleTypes = []string{"student", "teacher", "admin"}

// DefaultLanguages maps language codes to display names for the initial catalogue.
var DefaultLanguages = map[string]string{"en": "English"}

// SeedService installs the reference data the API depends on.
type SeedService interface {
	SeedReferenceData(ctx context.Context) (int, error)
}

type seedService struct {
	roles     repository.Repository[models.RoleType]
	languages repository.Repository[models.SupportedLanguage]
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(roles repository.Repository[models.RoleType], languages repository.Repository[models.SupportedLanguage], logger zerolog.Logger) SeedService {
	return &seedService{
		roles:     roles,
		languages: languages,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

// SeedReferenceData creates the missing default role types and languages and
// reports how many rows it inserted. Running it twice inserts nothing.
func (s *seedService) SeedReferenceData(ctx context.Context) (int, error) {
	inserted := 0

	for _, name := range DefaultRoleTypes {
		created, err := ensure(ctx, s.roles, repository.Filter{"name": name}, &models.RoleType{Name: name})
		if err != nil {
			return inserted, fmt.Errorf("seed role type %s: %w", name, err)
		}
		if created {
			inserted++
		}
	}

	for code, name := range DefaultLanguages {
		created, err := ensure(ctx, s.languages, repository.Filter{"code": code}, &models.SupportedLanguage{Code: code, Name: name})
		if err != nil {
			return inserted, fmt.Errorf("seed language %s: %w", code, err)
		}
		if created {
			inserted++
		}
	}

	s.logger.Info().Int("inserted", inserted).Msg("reference data seeded")
	return inserted, nil
}

func ensure[T any](ctx context.Context, repo repository.Repository[T], filter repository.Filter, item *T) (bool, error) {
	_, err := repo.FirstBy(ctx, filter)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	if err := repo.Create(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}
