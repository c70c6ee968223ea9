package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearAuthEnv unsets every auth-related variable with test-scoped restore.
func clearAuthEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SUPERSET_TOKEN", "SUPERSET_USERNAME", "SUPERSET_PASSWORD"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestEnvProvider_GetToken_Success(t *testing.T) {
	expectedToken := "sst_test_token_123"
	t.Setenv("SUPERSET_TOKEN", expectedToken)

	provider := &EnvProvider{}
	token, err := provider.GetToken()

	require.NoError(t, err)
	assert.Equal(t, expectedToken, token)
}

func TestEnvProvider_GetToken_Missing(t *testing.T) {
	clearAuthEnv(t)

	provider := &EnvProvider{}
	token, err := provider.GetToken()

	assert.Error(t, err)
	assert.Empty(t, token)
	assert.Contains(t, err.Error(), "SUPERSET_TOKEN")
}

func TestStaticProvider_GetToken(t *testing.T) {
	provider := &StaticProvider{Token: "cfg_token"}
	token, err := provider.GetToken()

	require.NoError(t, err)
	assert.Equal(t, "cfg_token", token)
}

func TestStaticProvider_GetToken_Empty(t *testing.T) {
	provider := &StaticProvider{}
	token, err := provider.GetToken()

	assert.Error(t, err)
	assert.Empty(t, token)
}

func TestLoginProvider_GetToken(t *testing.T) {
	t.Setenv("SUPERSET_USERNAME", "admin")
	t.Setenv("SUPERSET_PASSWORD", "hunter2")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/security/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin", req.Username)
		assert.Equal(t, "hunter2", req.Password)
		assert.Equal(t, "db", req.Provider)

		json.NewEncoder(w).Encode(loginResponse{AccessToken: "jwt_abc"})
	}))
	defer srv.Close()

	provider := &LoginProvider{BaseURL: srv.URL}
	token, err := provider.GetToken()

	require.NoError(t, err)
	assert.Equal(t, "jwt_abc", token)
}

func TestLoginProvider_GetToken_BadCredentials(t *testing.T) {
	t.Setenv("SUPERSET_USERNAME", "admin")
	t.Setenv("SUPERSET_PASSWORD", "wrong")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not authorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	provider := &LoginProvider{BaseURL: srv.URL}
	token, err := provider.GetToken()

	assert.Error(t, err)
	assert.Empty(t, token)
}

func TestLoginProvider_GetToken_NoCredentials(t *testing.T) {
	clearAuthEnv(t)

	provider := &LoginProvider{BaseURL: "http://localhost:8088"}
	_, err := provider.GetToken()

	assert.Error(t, err)
}

func TestGetToken_EnvWins(t *testing.T) {
	t.Setenv("SUPERSET_TOKEN", "env_token")

	token, err := GetToken("http://localhost:8088", "cfg_token")

	require.NoError(t, err)
	assert.Equal(t, "env_token", token)
}

func TestGetToken_FallbackToConfig(t *testing.T) {
	clearAuthEnv(t)

	token, err := GetToken("http://localhost:8088", "cfg_token")

	require.NoError(t, err)
	assert.Equal(t, "cfg_token", token)
}

func TestGetToken_FallbackToLogin(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("SUPERSET_USERNAME", "admin")
	t.Setenv("SUPERSET_PASSWORD", "hunter2")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(loginResponse{AccessToken: "jwt_from_login"})
	}))
	defer srv.Close()

	token, err := GetToken(srv.URL, "")

	require.NoError(t, err)
	assert.Equal(t, "jwt_from_login", token)
}

func TestGetToken_AllFail(t *testing.T) {
	clearAuthEnv(t)

	token, err := GetToken("http://localhost:8088", "")

	require.Error(t, err)
	assert.Empty(t, token)
	// Error should be actionable
	assert.Contains(t, err.Error(), "SUPERSET_TOKEN")
	assert.Contains(t, err.Error(), "config")
	assert.Contains(t, err.Error(), "SUPERSET_USERNAME")
}

func TestTokenProvider_Interface(t *testing.T) {
	// Verify all implementations satisfy the interface
	var _ TokenProvider = &EnvProvider{}
	var _ TokenProvider = &StaticProvider{}
	var _ TokenProvider = &LoginProvider{}
}
