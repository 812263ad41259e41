package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/andriev/inventory-api/internal/hash"
	"github.com/andriev/inventory-api/internal/models"
	"github.com/andriev/inventory-api/internal/session"
)

type AuthHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
	Producer Publisher
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMsg(c, http.StatusNotFound, "user not found")
		}
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	if !hash.VerifyPassword(user.Password, req.Password) {
		return jsonMsg(c, http.StatusBadRequest, "Wrong Password")
	}

	sid, err := h.Sessions.Create(c.Request().Context(), user.UUID)
	if err != nil {
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	c.SetCookie(CreateCookie(session.CookieName, h.Sessions.Sign(sid), "/", time.Now().Add(h.Sessions.TTL)))

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) Me(c echo.Context) error {
	sess := h.currentSession(c)
	if sess == nil {
		return jsonMsg(c, http.StatusUnauthorized, "Please log in to your account!")
	}

	var user models.User
	if err := h.DB.Where("uuid = ?", sess.UserUUID).First(&user).Error; err != nil {
		return jsonMsg(c, http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(session.CookieName); err == nil {
		if sid, ok := h.Sessions.Verify(ck.Value); ok {
			if err := h.Sessions.Destroy(c.Request().Context(), sid); err != nil {
				return jsonMsg(c, http.StatusBadRequest, "Unable to logout")
			}
		}
	}

	c.SetCookie(CreateCookie(session.CookieName, "", "/", time.Now().Add(-1*time.Hour)))

	return jsonMsg(c, http.StatusOK, "You have successfully logged out")
}

func (h *AuthHandler) currentSession(c echo.Context) *models.Session {
	ck, err := c.Cookie(session.CookieName)
	if err != nil {
		return nil
	}
	sid, ok := h.Sessions.Verify(ck.Value)
	if !ok {
		return nil
	}
	sess, err := h.Sessions.Get(c.Request().Context(), sid)
	if err != nil {
		return nil
	}
	return sess
}
