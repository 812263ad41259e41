package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/andriev/inventory-api/internal/models"
	"github.com/andriev/inventory-api/internal/session"
)

type Middleware struct {
	DB       *gorm.DB
	Sessions *session.Store
}

// VerifyUser rejects requests without a live session, resolves the session's
// user and attaches the caller's internal id and role to the context.
func (m *Middleware) VerifyUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := m.currentSession(c)
		if sess == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Please log in to your account!"})
		}

		var user models.User
		if err := m.DB.Where("uuid = ?", sess.UserUUID).First(&user).Error; err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
		}

		setUserContext(c, user)
		return next(c)
	}
}

func (m *Middleware) currentSession(c echo.Context) *models.Session {
	ck, err := c.Cookie(session.CookieName)
	if err != nil {
		return nil
	}
	sid, ok := m.Sessions.Verify(ck.Value)
	if !ok {
		return nil
	}
	sess, err := m.Sessions.Get(c.Request().Context(), sid)
	if err != nil {
		return nil
	}
	return sess
}

func setUserContext(c echo.Context, user models.User) {
	c.Set("userID", user.ID)
	c.Set("role", user.Role)
}
