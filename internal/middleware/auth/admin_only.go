package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/andriev/inventory-api/internal/models"
)

// AdminOnly re-resolves the caller from the session and requires the admin
// role. It does not establish login state, VerifyUser runs before it; a
// request that reaches it without a session answers 404, not 401.
func (m *Middleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := m.currentSession(c)
		if sess == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
		}

		var user models.User
		if err := m.DB.Where("uuid = ?", sess.UserUUID).First(&user).Error; err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
		}

		if user.Role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"msg": "Access Denied"})
		}

		return next(c)
	}
}
