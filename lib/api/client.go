// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

// Package api is a typed HTTP client for the Aegis detection backend.
// It covers the full dashboard surface: the status snapshot poll,
// system/audio state commands, the ask endpoint, account lookup, the
// reference-face roster, and overlay display preferences.
//
// Every method takes a context and returns an explicit error. The
// client never retries: the dashboard's fixed-interval poll is its own
// retry mechanism, and action requests surface their failure to the
// control that issued them.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aegis-vision/aegis/lib/clock"
)

// ErrUnauthenticated is returned when the backend rejects a request
// with 401. The dashboard cannot recover in place; the user must log
// in through the backend's web surface.
var ErrUnauthenticated = errors.New("api: not logged in")

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://127.0.0.1:8000".
	// Required.
	BaseURL string

	// HTTPClient is used for all requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides time operations for request-duration logging.
	// Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives structured request logs. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client issues requests against the detection backend's HTTP surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a backend client from the given configuration.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("api: BaseURL must be an http(s) URL (got %q)", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
	}, nil
}

// Status fetches the current backend snapshot.
func (client *Client) Status(ctx context.Context) (Snapshot, error) {
	var snapshot Snapshot
	err := client.do(ctx, http.MethodGet, "/api/status", nil, &snapshot)
	return snapshot, err
}

// SetSystemState starts or stops the backend detection loop.
func (client *Client) SetSystemState(ctx context.Context, active bool) error {
	body := map[string]bool{"active": active}
	return client.do(ctx, http.MethodPost, "/api/system/state", body, nil)
}

// SetAudioState mutes or unmutes the backend's spoken feedback.
func (client *Client) SetAudioState(ctx context.Context, muted bool) error {
	body := map[string]bool{"muted": muted}
	return client.do(ctx, http.MethodPost, "/api/audio/state", body, nil)
}

// SetOverlays toggles bounding-box rendering in the backend video feed
// and persists the preference on the user's account.
func (client *Client) SetOverlays(ctx context.Context, show bool) error {
	body := map[string]bool{"show": show}
	return client.do(ctx, http.MethodPost, "/api/settings/overlays", body, nil)
}

// Ask sends a free-form question to the backend's reasoning service
// and returns the answer text.
func (client *Client) Ask(ctx context.Context, question string) (string, error) {
	body := map[string]string{"question": question}
	var response struct {
		Answer string `json:"answer"`
	}
	if err := client.do(ctx, http.MethodPost, "/api/ask", body, &response); err != nil {
		return "", err
	}
	return response.Answer, nil
}

// CurrentUser fetches the authenticated account. Returns
// ErrUnauthenticated when there is no valid session.
func (client *Client) CurrentUser(ctx context.Context) (User, error) {
	var user User
	err := client.do(ctx, http.MethodGet, "/api/user/me", nil, &user)
	return user, err
}

// Faces lists the user's reference-face roster.
func (client *Client) Faces(ctx context.Context) ([]Face, error) {
	var faces []Face
	err := client.do(ctx, http.MethodGet, "/api/faces", nil, &faces)
	return faces, err
}

// UploadFace registers a new reference face from an image. The
// filename is sent as the multipart part name; content supplies the
// image bytes.
func (client *Client) UploadFace(ctx context.Context, name, filename string, content io.Reader) (Face, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	if err := writer.WriteField("name", name); err != nil {
		return Face{}, fmt.Errorf("api: build upload form: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return Face{}, fmt.Errorf("api: build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return Face{}, fmt.Errorf("api: read face image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Face{}, fmt.Errorf("api: build upload form: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/api/faces", &buffer)
	if err != nil {
		return Face{}, fmt.Errorf("api: build request: %w", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())

	var face Face
	if err := client.send(request, &face); err != nil {
		return Face{}, err
	}
	return face, nil
}

// DeleteFace removes a reference face from the roster.
func (client *Client) DeleteFace(ctx context.Context, faceID int) error {
	return client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/faces/%d", faceID), nil, nil)
}

// do issues a JSON request and decodes the JSON response into result
// (when non-nil).
func (client *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	return client.send(request, result)
}

// send executes a prepared request, maps error statuses, and decodes
// the response body.
func (client *Client) send(request *http.Request, result any) error {
	started := client.clock.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	client.logger.Debug("backend request",
		"method", request.Method,
		"path", request.URL.Path,
		"status", response.StatusCode,
		"duration", client.clock.Now().Sub(started))

	if response.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		// Surface a short excerpt of the body: backend errors are
		// JSON {"detail": ...} and small.
		excerpt, _ := io.ReadAll(io.LimitReader(response.Body, 200))
		return fmt.Errorf("api: %s %s: unexpected status %d: %s",
			request.Method, request.URL.Path, response.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(result); err != nil {
		return fmt.Errorf("api: decode %s response: %w", request.URL.Path, err)
	}
	return nil
}
