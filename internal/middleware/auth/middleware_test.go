package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andriev/inventory-api/internal/models"
	"github.com/andriev/inventory-api/internal/session"
)

func newTestMiddleware(t *testing.T) *Middleware {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}))

	return &Middleware{DB: db, Sessions: session.NewStore(db, []byte("test-secret"), time.Hour)}
}

func createUser(t *testing.T, db *gorm.DB, role models.Role) models.User {
	t.Helper()

	user := models.User{Name: "John Doe", Email: string(role) + "@example.com", Password: "irrelevant", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func sessionCookie(t *testing.T, m *Middleware, userUUID string) *http.Cookie {
	t.Helper()

	sid, err := m.Sessions.Create(context.Background(), userUUID)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: m.Sessions.Sign(sid)}
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	reached := false
	h := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c, reached
}

func TestVerifyUserNoSession(t *testing.T) {
	m := newTestMiddleware(t)

	rec, _, reached := invoke(t, m.VerifyUser)
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Please log in to your account!")
}

func TestVerifyUserForgedCookie(t *testing.T) {
	m := newTestMiddleware(t)
	user := createUser(t, m.DB, models.RoleUser)

	ck := sessionCookie(t, m, user.UUID)
	ck.Value = "forged-sid.forged-signature"

	rec, _, reached := invoke(t, m.VerifyUser, ck)
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyUserDeletedUser(t *testing.T) {
	m := newTestMiddleware(t)
	user := createUser(t, m.DB, models.RoleUser)
	ck := sessionCookie(t, m, user.UUID)

	require.NoError(t, m.DB.Delete(&models.User{}, user.ID).Error)

	rec, _, reached := invoke(t, m.VerifyUser, ck)
	require.False(t, reached)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "User not found")
}

func TestVerifyUserAttachesIdentity(t *testing.T) {
	m := newTestMiddleware(t)
	user := createUser(t, m.DB, models.RoleAdmin)
	ck := sessionCookie(t, m, user.UUID)

	rec, c, reached := invoke(t, m.VerifyUser, ck)
	require.True(t, reached)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, user.ID, c.Get("userID"))
	require.Equal(t, models.RoleAdmin, c.Get("role"))
}

func TestAdminOnlyNoSession(t *testing.T) {
	m := newTestMiddleware(t)

	// AdminOnly assumes VerifyUser ran; without a session it resolves no
	// user and answers 404, not 401.
	rec, _, reached := invoke(t, m.AdminOnly)
	require.False(t, reached)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminOnlyNonAdmin(t *testing.T) {
	m := newTestMiddleware(t)
	user := createUser(t, m.DB, models.RoleUser)

	rec, _, reached := invoke(t, m.AdminOnly, sessionCookie(t, m, user.UUID))
	require.False(t, reached)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Access Denied")
}

func TestAdminOnlyAdmin(t *testing.T) {
	m := newTestMiddleware(t)
	user := createUser(t, m.DB, models.RoleAdmin)

	rec, _, reached := invoke(t, m.AdminOnly, sessionCookie(t, m, user.UUID))
	require.True(t, reached)
	require.Equal(t, http.StatusOK, rec.Code)
}
