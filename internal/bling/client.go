package bling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL = "https://api.bling.com.br/Api/v3"
	DefaultTimeout = 15 * time.Second

	// maxRetries bounds how many times an unauthorized call is replayed
	// after a refresh.
	maxRetries = 1

	maxBodySize = 4 << 20
	refreshKey  = "refresh"
)

type outcome int

const (
	outcomeOK outcome = iota
	outcomeUnauthorized
	outcomeFailed
)

// result is what a single attempt produced. token is the access token the
// attempt was sent with, so a refresh can tell whether it is still current.
type result struct {
	outcome outcome
	status  int
	body    []byte
	token   string
	err     error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      *Credentials
	log        *slog.Logger
	validate   *validator.Validate
	refreshes  singleflight.Group
}

func New(
	log *slog.Logger,
	baseURL string,
	timeout time.Duration,
	creds *Credentials,
	validate *validator.Validate,
) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
		log:        log,
		validate:   validate,
	}
}

// Get calls path with the current bearer token and decodes the JSON body
// into out. An unauthorized answer triggers one refresh and one retry.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	const op = "bling.Client.Get"

	var res result

	for attempt := 0; attempt <= maxRetries; attempt++ {
		res = c.send(ctx, http.MethodGet, path, query)

		switch res.outcome {
		case outcomeOK:
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(res.body, out); err != nil {
				return fmt.Errorf("%s: decode %s: %w", op, path, err)
			}
			return nil

		case outcomeFailed:
			return fmt.Errorf("%s: %w", op, res.err)
		}

		if attempt == maxRetries {
			break
		}

		c.log.Debug("bling access token rejected, refreshing",
			slog.String("op", op),
			slog.String("path", path),
			slog.Int("status", res.status),
		)

		if err := c.refreshIfStale(ctx, res.token); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return fmt.Errorf("%s: %w", op, &APIError{
		StatusCode: res.status,
		Body:       res.body,
		Err:        ErrUnauthorized,
	})
}

// send performs one attempt and classifies it.
func (c *Client) send(ctx context.Context, method, path string, query url.Values) result {
	token := c.creds.AccessToken()

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), nil)
	if err != nil {
		return result{outcome: outcomeFailed, token: token, err: err}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result{outcome: outcomeFailed, token: token, err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return result{outcome: outcomeFailed, status: resp.StatusCode, token: token, err: err}
	}

	res := result{status: resp.StatusCode, body: body, token: token}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || isInvalidToken(body):
		res.outcome = outcomeUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		res.outcome = outcomeFailed
		res.err = &APIError{StatusCode: resp.StatusCode, Body: body}
	default:
		res.outcome = outcomeOK
	}

	return res
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) == 0 {
		return u
	}

	// Bling documents array filters with literal brackets (gtins[]=...).
	return u + "?" + bracketUnescaper.Replace(query.Encode())
}

var bracketUnescaper = strings.NewReplacer("%5B", "[", "%5D", "]")

type errorEnvelope struct {
	Error struct {
		Type        string `json:"type"`
		Message     string `json:"message"`
		Description string `json:"description"`
	} `json:"error"`
}

func isInvalidToken(body []byte) bool {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return false
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false
	}

	return env.Error.Type == "invalid_token"
}
