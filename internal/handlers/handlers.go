package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/andriev/inventory-api/internal/models"
)

// Publisher emits best-effort domain events. A nil Publisher is valid and
// publishes nothing.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Indexer mirrors product writes into the search index. A nil Indexer is
// valid and indexes nothing.
type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, uuid string) error
}

type userResponse struct {
	UUID  string      `json:"uuid"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{UUID: u.UUID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type productOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type productResponse struct {
	UUID  string       `json:"uuid"`
	Name  string       `json:"name"`
	Price float64      `json:"price"`
	User  productOwner `json:"user"`
}

func toProductResponse(p models.Product) productResponse {
	return productResponse{
		UUID:  p.UUID,
		Name:  p.Name,
		Price: p.Price,
		User:  productOwner{Name: p.User.Name, Email: p.User.Email},
	}
}

func jsonMsg(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"msg": msg})
}

func CreateCookie(name, value, path string, expTime time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func publish(c echo.Context, p Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

// callerIdentity reads what VerifyUser attached to the request context.
func callerIdentity(c echo.Context) (uint, models.Role) {
	id, _ := c.Get("userID").(uint)
	role, _ := c.Get("role").(models.Role)
	return id, role
}
