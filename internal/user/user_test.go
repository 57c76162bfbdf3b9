package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "lms_backend/internal/http"
	"lms_backend/platform/apperr"
	"lms_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRepo struct {
	users     map[string]bson.M
	purchases []bson.M
}

func (f *fakeRepo) GetUser(_ context.Context, userID string) (bson.M, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeRepo) ListPurchases(_ context.Context, userID string) ([]bson.M, error) {
	out := []bson.M{}
	for _, p := range f.purchases {
		if p["userId"] == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// newEngine attaches the given caller before the module routes, standing in
// for the session token middleware.
func newEngine(repo Repository, userID string) *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if userID != "" {
			httpkit.SetIdentity(c, httpkit.NewIdentity(userID, "sess_1", ""))
		}
		c.Next()
	})
	NewModuleWithRepository(repo).RegisterRoutes(&apphttp.RouterContext{
		Engine:      engine,
		API:         engine.Group("/api"),
		RequireAuth: httpkit.RequireAuth(),
	})
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func testRepo() *fakeRepo {
	return &fakeRepo{
		users: map[string]bson.M{"user_1": {"_id": "user_1", "name": "Ada"}},
		purchases: []bson.M{
			{"_id": "p1", "userId": "user_1", "status": "completed"},
			{"_id": "p2", "userId": "user_2", "status": "pending"},
		},
	}
}

func TestGetDataReturnsCallerDocument(t *testing.T) {
	w := get(newEngine(testRepo(), "user_1"), "/api/user/data")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":{"_id":"user_1","name":"Ada"}}`, w.Body.String())
}

func TestGetDataUnknownUser(t *testing.T) {
	w := get(newEngine(testRepo(), "user_9"), "/api/user/data")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPurchasesOnlyReturnsCallersPurchases(t *testing.T) {
	w := get(newEngine(testRepo(), "user_1"), "/api/user/purchases")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"purchases":[{"_id":"p1","userId":"user_1","status":"completed"}]}`, w.Body.String())
}

func TestUserRoutesRequireAuth(t *testing.T) {
	engine := newEngine(testRepo(), "")

	for _, path := range []string{"/api/user/data", "/api/user/purchases"} {
		assert.Equal(t, http.StatusUnauthorized, get(engine, path).Code, path)
	}
}
