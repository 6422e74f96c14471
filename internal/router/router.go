package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/inzone-go-api/internal/config"
	"github.com/noah-isme/inzone-go-api/internal/handler"
	"github.com/noah-isme/inzone-go-api/internal/middleware"
	"github.com/noah-isme/inzone-go-api/internal/models"
	"github.com/noah-isme/inzone-go-api/internal/observability"
)

const (
	studentSearchClause  = "LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?"
	upcomingCourseClause = "start_date >= ?"
)

var (
	staffRoles = []string{"admin", "teacher"}
	// Only staff may assign roles.
	privilegedStudentFields = []string{"role_type_id"}
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Students           *handler.QueryHandler[models.Student]
	Courses            *handler.QueryHandler[models.Course]
	CourseLocations    *handler.QueryHandler[models.CourseLocation]
	RoleTypes          *handler.QueryHandler[models.RoleType]
	SupportedLanguages *handler.QueryHandler[models.SupportedLanguage]
	StudentAnswers     *handler.StudentAnswerQueryHandler
	Auth               *handler.AuthHandler
	JWTMiddleware      fiber.Handler
	HealthPing         func() error
	Now                func() time.Time
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get(observability.MetricsPath, observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthPing))

	// Writes are only guarded when enforcement is on.
	var writeGuards, adminGuards, answerGuards []fiber.Handler
	var studentGuards handler.RouteGuards
	if cfg.AuthEnforce && deps.JWTMiddleware != nil {
		requireStaff := middleware.RequireRole(staffRoles...)
		staffFields := middleware.RestrictFields(privilegedStudentFields, staffRoles...)

		writeGuards = []fiber.Handler{deps.JWTMiddleware}
		adminGuards = []fiber.Handler{deps.JWTMiddleware, requireStaff}
		answerGuards = []fiber.Handler{deps.JWTMiddleware, middleware.RequireSelfOrRole("student_id", staffRoles...)}
		studentGuards = handler.RouteGuards{
			Create: []fiber.Handler{deps.JWTMiddleware, staffFields},
			Bulk:   adminGuards,
			Item:   []fiber.Handler{deps.JWTMiddleware, middleware.RequireSelfOrRole("id", staffRoles...), staffFields},
		}
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	if deps.Auth != nil {
		deps.Auth.Register(api.Group("/auth"), middleware.RateLimit("auth_login", 5, time.Minute))
	}

	if deps.Students != nil {
		students := api.Group("/students")
		students.Get("/search", deps.Students.ListWhere(studentSearchClause, func(c *fiber.Ctx) []any {
			pattern := "%" + strings.ToLower(strings.TrimSpace(c.Query("q"))) + "%"
			return []any{pattern, pattern, pattern}
		}))
		if deps.StudentAnswers != nil {
			deps.StudentAnswers.RegisterStudentRoutes(students, answerGuards...)
		}
		deps.Students.RegisterGuarded(students, studentGuards)
	}

	if deps.Courses != nil {
		courses := api.Group("/courses")
		courses.Get("/upcoming", deps.Courses.ListWhere(upcomingCourseClause, func(*fiber.Ctx) []any {
			return []any{now().UTC()}
		}))
		deps.Courses.Register(courses, writeGuards...)
	}

	if deps.CourseLocations != nil {
		deps.CourseLocations.Register(api.Group("/course-locations"), writeGuards...)
	}

	if deps.RoleTypes != nil {
		deps.RoleTypes.Register(api.Group("/role-types"), adminGuards...)
	}

	if deps.SupportedLanguages != nil {
		deps.SupportedLanguages.Register(api.Group("/supported-languages"), adminGuards...)
	}

	if deps.StudentAnswers != nil {
		deps.StudentAnswers.Register(api.Group("/student-answers"), writeGuards...)
	}
}
