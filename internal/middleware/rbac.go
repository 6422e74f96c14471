package middleware

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/inzone-go-api/internal/utils"
)

const forbiddenMessage = "insufficient permissions"

// RequireRole ensures that the authenticated student holds one of the allowed roles.
func RequireRole(roles ...string) fiber.Handler {
	allowed := roleSet(roles)

	return func(c *fiber.Ctx) error {
		if !hasRole(c, allowed) {
			return utils.SendMessage(c, fiber.StatusForbidden, forbiddenMessage)
		}
		return c.Next()
	}
}

// RequireSelfOrRole lets a request through when the path parameter param names
// the authenticated student, or when the caller holds one of roles.
func RequireSelfOrRole(param string, roles ...string) fiber.Handler {
	allowed := roleSet(roles)

	return func(c *fiber.Ctx) error {
		if hasRole(c, allowed) {
			return c.Next()
		}

		target, err := strconv.ParseUint(c.Params(param), 10, 64)
		if err != nil || StudentID(c) == 0 || uint(target) != StudentID(c) {
			return utils.SendMessage(c, fiber.StatusForbidden, forbiddenMessage)
		}
		return c.Next()
	}
}

// RestrictFields rejects JSON object bodies that set any of fields unless the
// caller holds one of roles. Other bodies pass through to the handler.
func RestrictFields(fields []string, roles ...string) fiber.Handler {
	allowed := roleSet(roles)

	return func(c *fiber.Ctx) error {
		if hasRole(c, allowed) {
			return c.Next()
		}

		var body map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return c.Next()
		}
		// Body decoding matches keys case-insensitively, so the check does too.
		for key := range body {
			for _, field := range fields {
				if strings.EqualFold(key, field) {
					return utils.SendMessage(c, fiber.StatusForbidden, forbiddenMessage)
				}
			}
		}
		return c.Next()
	}
}

func roleSet(roles []string) map[string]struct{} {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if normalized := normalizeRole(role); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}
	return allowed
}

func hasRole(c *fiber.Ctx, allowed map[string]struct{}) bool {
	role, _ := c.Locals(roleLocal).(string)
	_, ok := allowed[role]
	return ok
}
