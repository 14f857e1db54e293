package webserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhalls/campuswatch/src/CWApi/config"
)

func TestConfigEndpointExposesModerationURL(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := New(config.Config{
		JWTSecret:     "secret",
		ModerationURL: "https://mod.example.edu",
		FrontendURL:   "http://localhost:3000",
	}, nil, nil, DefaultWriteLimiter())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/config", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://mod.example.edu", body["moderationUrl"])
}
