package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/inzone-go-api/internal/models"
	"github.com/noah-isme/inzone-go-api/internal/service"
	"github.com/noah-isme/inzone-go-api/internal/utils"
)

// StudentAnswerQueryHandler adds per-student answer routes to the generic handler.
type StudentAnswerQueryHandler struct {
	*QueryHandler[models.StudentAnswer]
	answers service.StudentAnswerService
}

// NewStudentAnswerQueryHandler constructs the handler.
func NewStudentAnswerQueryHandler(svc service.StudentAnswerService, logger zerolog.Logger) *StudentAnswerQueryHandler {
	return &StudentAnswerQueryHandler{
		QueryHandler: NewQueryHandler[models.StudentAnswer](svc, logger),
		answers:      svc,
	}
}

// RegisterStudentRoutes wires the answer routes nested under a student resource.
func (h *StudentAnswerQueryHandler) RegisterStudentRoutes(students fiber.Router, guards ...fiber.Handler) {
	students.Get("/:student_id/answers", h.listForStudent)
	students.Post("/:student_id/courses/:course_id/answers", withGuards(guards, h.addBatch)...)
}

func (h *StudentAnswerQueryHandler) listForStudent(c *fiber.Ctx) error {
	filter := queryFilter(c)
	for key, value := range paramFilter(c, "student_id") {
		filter[key] = value
	}

	items, err := h.answers.GetAllBy(c.UserContext(), filter)
	if err != nil {
		return respondQueryError(c, h.logger, err)
	}
	return utils.Send(c, fiber.StatusOK, items)
}

func (h *StudentAnswerQueryHandler) addBatch(c *fiber.Ctx) error {
	if !isJSONRequest(c) {
		return utils.SendMessage(c, fiber.StatusMethodNotAllowed, notJSONMessage)
	}

	forced := map[string]string{}
	for key, value := range paramFilter(c, "student_id", "course_id") {
		forced[key] = value.(string)
	}

	message, err := h.answers.AddBatch(c.UserContext(), forced, c.Body())
	if err != nil {
		return respondQueryError(c, h.logger, err)
	}
	return utils.SendMessage(c, fiber.StatusOK, message)
}
