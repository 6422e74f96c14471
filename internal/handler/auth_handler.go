package handler

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/inzone-go-api/internal/dto"
	"github.com/noah-isme/inzone-go-api/internal/service"
	"github.com/noah-isme/inzone-go-api/internal/utils"
)

// AuthHandler handles student login.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes.
func (h *AuthHandler) Register(router fiber.Router, guards ...fiber.Handler) {
	router.Post("/login", withGuards(guards, h.login)...)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	if !isJSONRequest(c) {
		return utils.SendMessage(c, fiber.StatusMethodNotAllowed, notJSONMessage)
	}

	var payload dto.LoginRequest
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return utils.SendMessage(c, fiber.StatusMethodNotAllowed, notJSONMessage)
	}

	response, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendMessage(c, fiber.StatusUnauthorized, err.Error())
		case isValidationError(err):
			return utils.SendMessage(c, fiber.StatusBadRequest, "invalid payload")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("login failed")
			return utils.SendMessage(c, fiber.StatusBadRequest, "unexpected error: "+err.Error())
		}
	}

	return utils.Send(c, fiber.StatusOK, response)
}
