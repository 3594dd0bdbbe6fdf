package middleware

import (
	"net/http"
	"strings"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/access"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const roleKey = "role"

// JWTAuth validates an HS256 bearer token and stores its subject and role
// claims on the context. An empty secret turns authentication off.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tok.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}
			role, _ := claims["role"].(string)
			c.Set("user_id", claims["sub"])
			c.Set(roleKey, role)
			return next(c)
		}
	}
}

// RequireDepartment rejects callers whose role may not act on dept. With an
// empty secret every caller passes.
func RequireDepartment(secret string, dept access.Department) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(c echo.Context) error {
			s, _ := c.Get(roleKey).(string)
			role, ok := access.ParseRole(s)
			if !ok || !access.Permitted(role, dept) {
				return echo.NewHTTPError(http.StatusForbidden, "role may not access "+string(dept))
			}
			return next(c)
		}
	}
}
