package course

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "lms_backend/internal/http"
	"lms_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRepo struct {
	courses map[string]bson.M
	err     error
}

func (f *fakeRepo) List(context.Context) ([]bson.M, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]bson.M, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (bson.M, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.courses[id]
	if !ok {
		return nil, apperr.NotFound("course not found")
	}
	return c, nil
}

func newEngine(repo Repository) *gin.Engine {
	engine := gin.New()
	NewModuleWithRepository(repo).RegisterRoutes(&apphttp.RouterContext{
		Engine: engine,
		API:    engine.Group("/api"),
	})
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListCourses(t *testing.T) {
	engine := newEngine(&fakeRepo{courses: map[string]bson.M{
		"c1": {"_id": "c1", "courseTitle": "Go 101"},
	}})

	w := get(engine, "/api/course/all")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Courses []map[string]interface{} `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Courses, 1)
	assert.Equal(t, "Go 101", body.Courses[0]["courseTitle"])
}

func TestListCoursesEmptyIsArray(t *testing.T) {
	w := get(newEngine(&fakeRepo{courses: map[string]bson.M{}}), "/api/course/all")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"courses":[]}`, w.Body.String())
}

func TestGetCourse(t *testing.T) {
	engine := newEngine(&fakeRepo{courses: map[string]bson.M{
		"c1": {"_id": "c1", "courseTitle": "Go 101"},
	}})

	w := get(engine, "/api/course/c1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"course":{"_id":"c1","courseTitle":"Go 101"}}`, w.Body.String())

	w = get(engine, "/api/course/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorageErrorsAreNotLeaked(t *testing.T) {
	w := get(newEngine(&fakeRepo{err: errors.New("socket closed by 10.0.0.3")}), "/api/course/all")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}
