package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/inzone-go-api/internal/utils"
)

const (
	studentLocal = "student_id"
	roleLocal    = "student_role"
)

// JWTProtected validates HS256 bearer tokens issued by the login endpoint and
// stores the subject and role in the request locals.
func JWTProtected(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authorization == "" {
			return utils.SendMessage(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "bearer "
		if len(authorization) <= len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendMessage(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimSpace(authorization[len(bearer):]), claims, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return utils.SendMessage(c, fiber.StatusUnauthorized, "invalid token")
		}

		studentID, err := subjectID(claims)
		if err != nil {
			return utils.SendMessage(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		role, _ := claims["role"].(string)
		c.Locals(studentLocal, studentID)
		c.Locals(roleLocal, normalizeRole(role))

		return c.Next()
	}
}

// StudentID returns the authenticated student, or zero on public routes.
func StudentID(c *fiber.Ctx) uint {
	id, _ := c.Locals(studentLocal).(uint)
	return id
}

func subjectID(claims jwt.MapClaims) (uint, error) {
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return 0, fmt.Errorf("missing subject")
	}

	parsed, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid subject %q", subject)
	}
	return uint(parsed), nil
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
