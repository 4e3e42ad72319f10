package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifelink-api-server/internal/auth"
	"lifelink-api-server/internal/database"
	"lifelink-api-server/internal/logger"
	"lifelink-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userLookup struct {
	mock.Mock
}

func (m *userLookup) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, identity)
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, m *auth.TokenManager, user models.User) string {
	t.Helper()
	token, err := m.Generate(user)
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Email: "a@x.com", Role: models.RoleDonor, Name: "A"}
	r := newRouter(Authenticate(tokens))

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "Token abc").Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		other := auth.NewTokenManager("other", time.Hour)
		assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer "+tokenFor(t, other, user)).Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := do(r, "Bearer "+tokenFor(t, tokens, user))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID.Hex())
		assert.Contains(t, w.Body.String(), `"role":"donor"`)
	})
}

func TestRequireActive(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Email: "a@x.com", Role: models.RoleDonor, Status: models.StatusActive}

	t.Run("blocked user with valid token is rejected", func(t *testing.T) {
		users := new(userLookup)
		blocked := user
		blocked.Status = models.StatusBlocked
		users.On("FindByID", mock.Anything, user.ID.Hex()).Return(&blocked, nil).Once()

		r := newRouter(Authenticate(tokens), RequireActive(users, logger.Discard()))
		w := do(r, "Bearer "+tokenFor(t, tokens, user))

		assert.Equal(t, http.StatusForbidden, w.Code)
		users.AssertExpectations(t)
	})

	t.Run("role is refreshed from storage", func(t *testing.T) {
		users := new(userLookup)
		promoted := user
		promoted.Role = models.RoleVolunteer
		users.On("FindByID", mock.Anything, user.ID.Hex()).Return(&promoted, nil).Once()

		r := newRouter(Authenticate(tokens), RequireActive(users, logger.Discard()))
		w := do(r, "Bearer "+tokenFor(t, tokens, user))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"volunteer"`)
	})

	t.Run("deleted user", func(t *testing.T) {
		users := new(userLookup)
		users.On("FindByID", mock.Anything, user.ID.Hex()).Return(nil, database.ErrNotFound).Once()

		r := newRouter(Authenticate(tokens), RequireActive(users, logger.Discard()))
		assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer "+tokenFor(t, tokens, user)).Code)
	})
}

func TestAuthorize(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	donor := models.User{ID: primitive.NewObjectID(), Role: models.RoleDonor}
	admin := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	r := newRouter(Authenticate(tokens), Authorize(models.RoleAdmin, models.RoleVolunteer))

	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+tokenFor(t, tokens, donor)).Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer "+tokenFor(t, tokens, admin)).Code)
}

func TestAuthorize_FailsClosedWithoutIdentity(t *testing.T) {
	r := newRouter(Authorize(models.RoleDonor, models.RoleVolunteer, models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := newRouter(RequestLogger(logger.Discard()))

	w := do(r, "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
