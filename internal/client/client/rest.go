package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dsatracker/internal/client/models"
)

const (
	PathLogin     = "/api/auth/login"
	PathRegister  = "/api/auth/register"
	PathLogout    = "/api/auth/logout"
	PathQuestions = "/api/questions"
	PathNext      = "/api/questions/next"
	PathStats     = "/api/questions/stats"

	maxErrorBody = 64 << 10
)

type RESTClient struct {
	baseURL *url.URL
	http    *http.Client
}

// NewRESTClient binds the client to baseURL. hc should carry the gateway
// transport and the cookie jar.
func NewRESTClient(baseURL string, hc *http.Client) (*RESTClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &RESTClient{baseURL: u, http: hc}, nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *RESTClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if _, err := c.do(ctx, http.MethodPost, PathLogin, credentials{username, password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *RESTClient) Register(ctx context.Context, username, password string) (string, error) {
	var resp messageResponse
	if _, err := c.do(ctx, http.MethodPost, PathRegister, credentials{username, password}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *RESTClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, PathLogout, nil, nil)
	return err
}

func (c *RESTClient) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var qs []models.Question
	if _, err := c.do(ctx, http.MethodGet, PathQuestions, nil, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (c *RESTClient) AddQuestion(ctx context.Context, req models.QuestionRequest) (*models.Question, error) {
	var q models.Question
	if _, err := c.do(ctx, http.MethodPost, PathQuestions, req, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *RESTClient) ReviseQuestion(ctx context.Context, id int64) (*models.Question, error) {
	var q models.Question
	path := PathQuestions + "/" + strconv.FormatInt(id, 10) + "/revise"
	if _, err := c.do(ctx, http.MethodPost, path, nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *RESTClient) NextQuestion(ctx context.Context) (*models.Question, error) {
	var q models.Question
	status, err := c.do(ctx, http.MethodGet, PathNext, nil, &q)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &q, nil
}

func (c *RESTClient) Stats(ctx context.Context) (*models.Stats, error) {
	var s models.Stats
	if _, err := c.do(ctx, http.MethodGet, PathStats, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *RESTClient) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, c.mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return resp.StatusCode, err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func (c *RESTClient) mapTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func mapStatus(resp *http.Response) error {
	switch code := resp.StatusCode; {
	case code < 400:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, code)
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return fmt.Errorf("%w (status %d)", ErrUnavailable, code)
	default:
		var msg messageResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if json.Unmarshal(raw, &msg) != nil || msg.Message == "" {
			msg.Message = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: code, Message: msg.Message}
	}
}
