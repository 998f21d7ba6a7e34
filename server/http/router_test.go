package serverhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brkHnd "brokerage-service/internal/brokerage/handler"
	"brokerage-service/internal/config"
	"brokerage-service/internal/prefs"
)

func TestRouter(t *testing.T) {
	cfg := config.Config{AllowOrigins: []string{"*"}, MaxUploadMB: 1, PageSize: 10}
	h := brkHnd.New(cfg, zerolog.Nop(), config.DefaultProfile(), prefs.NewMemory())
	srv := httptest.NewServer(NewRouter(cfg, zerolog.Nop(), h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])

	resp2, err := http.Get(srv.URL + "/export")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)

	resp3, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)
}
