package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/storefront/internal/adapters/cartstate"
	"github.com/phenrril/storefront/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		APIBaseURL:    "http://127.0.0.1:1/api/",
		APIAuthURL:    "http://127.0.0.1:1/rest-auth/",
		APIAuthScheme: "Bearer",
		MediaBaseURL:  "http://127.0.0.1:1",
		SessionKey:    "test-secret",
	}
}

func TestNewAppMemoryCarts(t *testing.T) {
	a, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &cartstate.Memory{}, a.Carts)
	assert.False(t, a.Payments.Verifies())

	rec := httptest.NewRecorder()
	a.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNewAppRedisCarts(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()

	a, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)

	assert.IsType(t, &cartstate.Redis{}, a.Carts)
	assert.NoError(t, a.Close())
}

func TestNewAppRejectsBadAPIURL(t *testing.T) {
	cfg := testConfig()
	cfg.APIBaseURL = "not a url"

	_, err := NewApp(context.Background(), cfg)

	assert.Error(t, err)
}
