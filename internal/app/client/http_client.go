package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"cleanspot/internal/app/client/config"
	"cleanspot/internal/domain/report"

	"golang.org/x/exp/slog"
)

// Gateway is the remote side of the sync pipeline. The HTTP client below
// is the production implementation; tests substitute their own.
type Gateway interface {
	Register(ctx context.Context, login, password string) error
	Login(ctx context.Context, login, password string) (string, error)
	CreateReport(ctx context.Context, req report.CreateRequest) (string, error)
	ListReports(ctx context.Context) ([]report.Report, error)
	DeleteReport(ctx context.Context, id string) error
	ReportStats(ctx context.Context) (report.StatsResponse, error)
	Health(ctx context.Context) error
	SetToken(token string)
}

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string

	mu    sync.RWMutex
	token string
}

func newHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	baseURL := cfg.ServerAddress
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &httpClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		log:       log.With("component", "http_client"),
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: "cleanspot-client/1.0",
	}
}

func (c *httpClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *httpClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errorEnvelope struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

// doRequest performs one JSON round-trip. Any status of 400 or above is
// returned as an error carrying the server's message when one is present.
func (c *httpClient) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to serialize request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var env errorEnvelope
		_ = json.Unmarshal(data, &env)
		msg := env.Error
		if msg == "" {
			msg = env.Detail
		}
		if msg == "" {
			msg = env.Title
		}
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("server rejected %s %s: %s", method, path, msg)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (c *httpClient) Register(ctx context.Context, login, password string) error {
	return c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register",
		credentialsRequest{Login: login, Password: password}, nil)
}

func (c *httpClient) Login(ctx context.Context, login, password string) (string, error) {
	var resp tokenResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login",
		credentialsRequest{Login: login, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

type createReportResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *httpClient) CreateReport(ctx context.Context, req report.CreateRequest) (string, error) {
	var resp createReportResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/reports", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *httpClient) ListReports(ctx context.Context) ([]report.Report, error) {
	var resp report.ListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/reports", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reports, nil
}

func (c *httpClient) DeleteReport(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/v1/reports/"+id, nil, nil)
}

func (c *httpClient) ReportStats(ctx context.Context) (report.StatsResponse, error) {
	var resp report.StatsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/reports/stats", nil, &resp); err != nil {
		return report.StatsResponse{}, err
	}
	return resp, nil
}

func (c *httpClient) Health(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, nil)
}
