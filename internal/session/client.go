package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clientflow/internal/platform/models"
)

// APIError carries the HTTP status alongside the backend's message so the
// auth classifier can use both.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client is a thin wrapper over the ClientFlow HTTP API, used by the session
// Manager. Every call is plain request/response with no retries.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProfileResult is the /api/profile contract: either an internal profile or
// a portal-user marker.
type ProfileResult struct {
	PortalUser bool            `json:"portal_user,omitempty"`
	ClientID   string          `json:"client_id,omitempty"`
	Profile    *models.Profile `json:"profile,omitempty"`
}

func (c *Client) Login(email, password string) (*TokenPair, error) {
	var out TokenPair
	err := c.post("/api/v1/auth/login", map[string]string{
		"email": email, "password": password,
	}, "", &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Signup(email, password, fullName string) (*TokenPair, error) {
	var out TokenPair
	err := c.post("/api/v1/auth/signup", map[string]string{
		"email": email, "password": password, "full_name": fullName,
	}, "", &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(accessToken string) error {
	return c.post("/api/v1/auth/logout", struct{}{}, accessToken, nil)
}

func (c *Client) ResetPassword(email string) error {
	return c.post("/api/v1/auth/reset-password", map[string]string{"email": email}, "", nil)
}

func (c *Client) UpdatePassword(accessToken, newPassword string) error {
	return c.post("/api/v1/account/password", map[string]string{"password": newPassword}, accessToken, nil)
}

func (c *Client) Refresh(refreshToken string) (*TokenPair, error) {
	var out TokenPair
	err := c.post("/api/v1/auth/refresh", map[string]string{"refresh_token": refreshToken}, "", &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchProfile loads the caller's application profile using the access token
// as a bearer credential.
func (c *Client) FetchProfile(accessToken string) (*ProfileResult, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/profile", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp)}
	}

	var out ProfileResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(path string, body interface{}, accessToken string, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp)}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func readErrorMessage(resp *http.Response) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return ""
	}
	return envelope.Message
}
