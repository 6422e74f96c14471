package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/inzone-go-api/internal/service"
	"github.com/noah-isme/inzone-go-api/internal/utils"
)

// QueryHandler exposes the generic query operations of one entity type over HTTP.
type QueryHandler[T any] struct {
	service service.QueryService[T]
	logger  zerolog.Logger
}

// NewQueryHandler constructs the handler.
func NewQueryHandler[T any](svc service.QueryService[T], logger zerolog.Logger) *QueryHandler[T] {
	return &QueryHandler[T]{
		service: svc,
		logger:  logger.With().Str("component", "query_handler").Str("model", svc.ModelName()).Logger(),
	}
}

// RouteGuards selects the middleware in front of each kind of mutating route.
type RouteGuards struct {
	Create []fiber.Handler
	Bulk   []fiber.Handler
	Item   []fiber.Handler
}

// Register attaches the resource endpoints. Guards run in front of every
// mutating route.
func (h *QueryHandler[T]) Register(router fiber.Router, guards ...fiber.Handler) {
	h.RegisterGuarded(router, RouteGuards{Create: guards, Bulk: guards, Item: guards})
}

// RegisterGuarded attaches the resource endpoints with per-route guards.
func (h *QueryHandler[T]) RegisterGuarded(router fiber.Router, guards RouteGuards) {
	router.Get("", h.list)
	router.Get("/first", h.first)
	router.Get("/:id", h.get)
	router.Post("", withGuards(guards.Create, h.add)...)
	router.Put("", withGuards(guards.Bulk, h.updateMatching)...)
	router.Put("/:id", withGuards(guards.Item, h.update)...)
	router.Patch("/:id", withGuards(guards.Item, h.update)...)
	router.Delete("", withGuards(guards.Bulk, h.deleteMatching)...)
	router.Delete("/:id", withGuards(guards.Item, h.delete)...)
}

// ListWhere serves a fixed, parameterised filter clause. args supplies the
// clause arguments for each request.
func (h *QueryHandler[T]) ListWhere(clause string, args func(c *fiber.Ctx) []any) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var values []any
		if args != nil {
			values = args(c)
		}

		items, err := h.service.GetAllWhere(c.UserContext(), clause, values...)
		if err != nil {
			return respondQueryError(c, h.logger, err)
		}
		return utils.Send(c, fiber.StatusOK, items)
	}
}

func (h *QueryHandler[T]) list(c *fiber.Ctx) error {
	filter := queryFilter(c)
	if len(filter) == 0 {
		items, err := h.service.GetAll(c.UserContext())
		if err != nil {
			return respondQueryError(c, h.logger, err)
		}
		return utils.Send(c, fiber.StatusOK, items)
	}

	items, err := h.service.GetAllBy(c.UserContext(), filter)
	if err != nil {
		return respondQueryError(c, h.logger, err)
	}
	return utils.Send(c, fiber.StatusOK, items)
}

func (h *QueryHandler[T]) first(c *fiber.Ctx) error {
	item, err := h.service.GetFirst(c.UserContext(), queryFilter(c))
	if err != nil {
		return respondQueryError(c, h.logger, err)
	}
	return utils.Send(c, fiber.StatusOK, item)
}

func (h *QueryHandler[T]) get(c *fiber.Ctx) error {
	item, err := h.service.GetFirst(c.UserContext(), paramFilter(c, "id"))
	if err != nil {
		return respondQueryError(c, h.logger, err)
	}
	return utils.Send(c, fiber.StatusOK, item)
}

func (h *QueryHandler[T]) add(c *fiber.Ctx) error {
	if !isJSONRequest(c) {
		return utils.SendMessage(c, fiber.StatusMethodNotAllowed, notJSONMessage)
	}

	message, err := h.service.Add(c.UserContext(), c.Body())
	if err != nil {
		return respondQueryError(c, h.logger, err)
	}
	return utils.SendMessage(c, fiber.StatusOK, message)
}

func (h *QueryHandler[T]) update(c *fiber.Ctx) error {
	content, ok := jsonObject(c)
	if !ok {
		return utils.SendMessage(c, fiber.StatusMethodNotAllowed, notJSONMessage)
	}

	message, err := h.service.UpdateFirst(c.UserContext(), paramFilter(c, "id"), content)
	if err != nil {
		return respondQueryError(c, h.logger, err)
	}
	return utils.SendMessage(c, fiber.StatusOK, message)
}

func (h *QueryHandler[T]) updateMatching(c *fiber.Ctx) error {
	content, ok := jsonObject(c)
	if !ok {
		return utils.SendMessage(c, fiber.StatusMethodNotAllowed, notJSONMessage)
	}

	message, err := h.service.UpdateAll(c.UserContext(), queryFilter(c), content)
	if err != nil {
		return respondQueryError(c, h.logger, err)
	}
	return utils.SendMessage(c, fiber.StatusOK, message)
}

func (h *QueryHandler[T]) delete(c *fiber.Ctx) error {
	message, err := h.service.DeleteFirst(c.UserContext(), paramFilter(c, "id"))
	if err != nil {
		return respondQueryError(c, h.logger, err)
	}
	return utils.SendMessage(c, fiber.StatusOK, message)
}

func (h *QueryHandler[T]) deleteMatching(c *fiber.Ctx) error {
	message, err := h.service.DeleteFirst(c.UserContext(), queryFilter(c))
	if err != nil {
		return respondQueryError(c, h.logger, err)
	}
	return utils.SendMessage(c, fiber.StatusOK, message)
}

func jsonObject(c *fiber.Ctx) (map[string]any, bool) {
	if !isJSONRequest(c) {
		return nil, false
	}

	var content map[string]any
	if err := json.Unmarshal(c.Body(), &content); err != nil || content == nil {
		return nil, false
	}
	return content, true
}
