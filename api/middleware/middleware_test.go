package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fyerfyer/doc-dashboard/api/model"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SetTraceID(), ErrorMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/conflict", func(c *gin.Context) { HandleError(c, NewConflictError("full")) })
	r.GET("/plain", func(c *gin.Context) { HandleError(c, errors.New("disk on fire")) })
	return r
}

func serve(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, model.Response) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var resp model.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestErrorMiddleware(t *testing.T) {
	r := newTestRouter()

	w, resp := serve(t, r, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An unexpected error occurred", resp.Message)
	assert.Equal(t, w.Header().Get(TraceIDHeader), resp.TraceID)

	w, resp = serve(t, r, "/conflict")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "full", resp.Message)

	w, resp = serve(t, r, "/plain")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestAppError(t *testing.T) {
	err := NewValidationError("bad input", "name", "size")
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, "VALIDATION_ERROR: bad input (name; size)", err.Error())
	assert.Equal(t, "NOT_FOUND_ERROR: gone", NewNotFoundError("gone").Error())
}

func TestConfigureLogger(t *testing.T) {
	defer func() {
		_, err := ConfigureLogger(LogOptions{Level: "info"})
		require.NoError(t, err)
	}()

	path := filepath.Join(t.TempDir(), "logs", "dashboard.log")
	closer, err := ConfigureLogger(LogOptions{Level: "debug", File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, GetLogger().GetLevel())

	GetLogger().Info("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")

	_, err = ConfigureLogger(LogOptions{Level: "loud"})
	assert.Error(t, err)
}
