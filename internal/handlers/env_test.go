package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andriev/inventory-api/internal/hash"
	"github.com/andriev/inventory-api/internal/models"
	"github.com/andriev/inventory-api/internal/session"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return nil
}

type fakeIndexer struct {
	indexed []models.Product
	deleted []string
}

func (f *fakeIndexer) IndexProduct(ctx context.Context, p models.Product) error {
	f.indexed = append(f.indexed, p)
	return nil
}

func (f *fakeIndexer) DeleteProduct(ctx context.Context, uuid string) error {
	f.deleted = append(f.deleted, uuid)
	return nil
}

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Sessions *session.Store
	A        *AuthHandler
	U        *UserHandler
	P        *ProductHandler
	Events   *fakePublisher
	Index    *fakeIndexer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Session{}))

	sessions := session.NewStore(db, []byte("test-secret"), time.Hour)
	events := &fakePublisher{}
	index := &fakeIndexer{}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Sessions: sessions,
		A:        &AuthHandler{DB: db, Sessions: sessions, Producer: events},
		U:        &UserHandler{DB: db, Producer: events},
		P:        &ProductHandler{DB: db, Producer: events, Indexer: index},
		Events:   events,
		Index:    index,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(name, email, password string, role models.Role) models.User {
	env.T.Helper()

	hashed, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := models.User{Name: name, Email: email, Password: hashed, Role: role}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func (env *testEnv) createProduct(owner models.User, name string, price float64) models.Product {
	env.T.Helper()

	product := models.Product{Name: name, Price: price, UserID: owner.ID}
	require.NoError(env.T, env.DB.Create(&product).Error)
	return product
}

func (env *testEnv) sessionCookie(userUUID string) *http.Cookie {
	env.T.Helper()

	sid, err := env.Sessions.Create(context.Background(), userUUID)
	require.NoError(env.T, err)
	return &http.Cookie{Name: session.CookieName, Value: env.Sessions.Sign(sid)}
}

// asCaller fills the context the way VerifyUser does for protected routes.
func asCaller(c echo.Context, user models.User) {
	c.Set("userID", user.ID)
	c.Set("role", user.Role)
}

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["msg"]
}
