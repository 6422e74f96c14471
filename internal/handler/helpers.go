package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/inzone-go-api/internal/middleware"
	"github.com/noah-isme/inzone-go-api/internal/repository"
	"github.com/noah-isme/inzone-go-api/internal/service"
	"github.com/noah-isme/inzone-go-api/internal/utils"
)

const notJSONMessage = "Invalid input: not json"

// isJSONRequest reports whether the request declares a JSON body and the body parses.
func isJSONRequest(c *fiber.Ctx) bool {
	return c.Is("json") && json.Valid(c.Body())
}

// queryFilter turns the query string into a column filter.
func queryFilter(c *fiber.Ctx) repository.Filter {
	filter := repository.Filter{}
	for key, value := range c.Queries() {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		filter[strings.Clone(key)] = strings.Clone(value)
	}
	return filter
}

func paramFilter(c *fiber.Ctx, names ...string) repository.Filter {
	filter := repository.Filter{}
	for _, name := range names {
		filter[name] = strings.Clone(c.Params(name))
	}
	return filter
}

// respondQueryError maps service failures onto the response taxonomy: rejected
// input is 405, everything else is 400.
func respondQueryError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return utils.SendMessage(c, fiber.StatusMethodNotAllowed, err.Error())
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrNothingToUpdate):
		return utils.SendMessage(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(logger, c).Error().Err(err).Str("path", c.Path()).Msg("unexpected query error")
		return utils.SendMessage(c, fiber.StatusBadRequest, "unexpected error: "+err.Error())
	}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func withGuards(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(guards)+1)
	for _, guard := range guards {
		if guard != nil {
			chain = append(chain, guard)
		}
	}
	return append(chain, handler)
}
