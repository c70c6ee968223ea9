// Package auth provides API token management for the BI server.
// It implements a simple interface with multiple providers following the
// "deep modules" principle - simple interface, complex implementation hidden.
package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// TokenProvider defines the interface for obtaining an API access token.
// Implementations may use different sources (environment variables, config
// files, etc).
type TokenProvider interface {
	GetToken() (string, error)
}

// EnvProvider obtains tokens from the SUPERSET_TOKEN environment variable.
type EnvProvider struct{}

// GetToken reads the SUPERSET_TOKEN environment variable.
// Returns an error if the variable is not set or is empty.
func (e *EnvProvider) GetToken() (string, error) {
	token := os.Getenv("SUPERSET_TOKEN")
	if token == "" {
		return "", errors.New("SUPERSET_TOKEN environment variable not set or empty")
	}
	return token, nil
}

// StaticProvider wraps a token obtained elsewhere (typically the config
// file). This is the fallback when the environment variable is not set.
type StaticProvider struct {
	Token string
}

// GetToken returns the wrapped token, or an error when it is empty.
func (s *StaticProvider) GetToken() (string, error) {
	if s.Token == "" {
		return "", errors.New("no token configured")
	}
	return s.Token, nil
}

// LoginProvider exchanges username/password credentials for an access token
// via the server's login endpoint. Credentials come from the
// SUPERSET_USERNAME and SUPERSET_PASSWORD environment variables.
type LoginProvider struct {
	BaseURL string
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Provider string `json:"provider"`
	Refresh  bool   `json:"refresh"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// GetToken posts the credentials to /api/v1/security/login and returns the
// access token from the response.
func (l *LoginProvider) GetToken() (string, error) {
	username := os.Getenv("SUPERSET_USERNAME")
	password := os.Getenv("SUPERSET_PASSWORD")
	if username == "" || password == "" {
		return "", errors.New("SUPERSET_USERNAME / SUPERSET_PASSWORD not set")
	}

	body, err := json.Marshal(loginRequest{
		Username: username,
		Password: password,
		Provider: "db",
	})
	if err != nil {
		return "", err
	}

	client := l.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	resp, err := client.Post(l.BaseURL+"/api/v1/security/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed: server returned %s", resp.Status)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("login response malformed: %w", err)
	}
	if lr.AccessToken == "" {
		return "", errors.New("login response contained no access token")
	}
	return lr.AccessToken, nil
}

// GetToken attempts to obtain an API token using the following strategy:
// 1. SUPERSET_TOKEN environment variable (preferred)
// 2. The token value from the config file
// 3. Username/password login when SUPERSET_USERNAME/SUPERSET_PASSWORD are set
// 4. Return a clear, actionable error if all fail
//
// This is the main entry point for token retrieval in the application.
func GetToken(baseURL, configToken string) (string, error) {
	envProvider := &EnvProvider{}
	token, err := envProvider.GetToken()
	if err == nil {
		return token, nil
	}

	envErr := err

	static := &StaticProvider{Token: configToken}
	token, err = static.GetToken()
	if err == nil {
		return token, nil
	}

	login := &LoginProvider{BaseURL: baseURL}
	token, err = login.GetToken()
	if err == nil {
		return token, nil
	}

	return "", fmt.Errorf(
		"failed to obtain API token: %v, and the config file has no token.\n"+
			"Please either:\n"+
			"  1. Set the SUPERSET_TOKEN environment variable, or\n"+
			"  2. Add a 'token' value to the config file, or\n"+
			"  3. Set SUPERSET_USERNAME and SUPERSET_PASSWORD for password login",
		envErr,
	)
}
