package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/andriev/inventory-api/internal/hash"
	"github.com/andriev/inventory-api/internal/models"
)

type UserHandler struct {
	DB       *gorm.DB
	Producer Publisher
}

type userPayload struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ConfPassword string `json:"confPassword"`
	Role         string `json:"role"`
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Find(&users).Error; err != nil {
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUserByID surfaces a missing uuid as the store's not-found error with
// status 500, not a crafted 404. Clients depend on that shape.
func (h *UserHandler) GetUserByID(c echo.Context) error {
	var user models.User
	if err := h.DB.Where("uuid = ?", c.Param("id")).First(&user).Error; err != nil {
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	var req userPayload
	if err := c.Bind(&req); err != nil {
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	if req.Password != req.ConfPassword {
		return jsonMsg(c, http.StatusBadRequest, "Password and Confirm Password do not match")
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return jsonMsg(c, http.StatusBadRequest, "invalid role")
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     role,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return jsonMsg(c, http.StatusCreated, "Registered Successfully")
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	var user models.User
	if err := h.DB.Where("uuid = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMsg(c, http.StatusNotFound, "User not found")
		}
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	var req userPayload
	if err := c.Bind(&req); err != nil {
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	if req.Password != req.ConfPassword {
		return jsonMsg(c, http.StatusBadRequest, "Password and Confirm Password do not match")
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return jsonMsg(c, http.StatusBadRequest, "invalid role")
	}

	// The password is re-hashed on every update, whatever fields changed.
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	updates := map[string]any{
		"name":     req.Name,
		"email":    req.Email,
		"password": hashed,
		"role":     role,
	}
	if err := h.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	return jsonMsg(c, http.StatusOK, "User Updated")
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	var user models.User
	if err := h.DB.Where("uuid = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMsg(c, http.StatusNotFound, "User not found")
		}
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	if err := h.DB.Delete(&models.User{}, user.ID).Error; err != nil {
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	return jsonMsg(c, http.StatusOK, "User Deleted")
}
