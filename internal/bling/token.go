package bling

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// Refresh exchanges the current refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context) error {
	const op = "bling.Client.Refresh"

	ch := c.refreshes.DoChan(refreshKey, func() (any, error) {
		return nil, c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

// refreshIfStale refreshes unless another caller already replaced the token
// that was rejected. Concurrent callers share one exchange; a caller whose
// ctx ends stops waiting while the exchange itself runs to completion.
func (c *Client) refreshIfStale(ctx context.Context, rejected string) error {
	const op = "bling.Client.refreshIfStale"

	ch := c.refreshes.DoChan(refreshKey, func() (any, error) {
		if c.creds.AccessToken() != rejected {
			return nil, nil
		}

		return nil, c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.log.Debug("joined in-flight bling token refresh")
		}
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

func (c *Client) refresh(ctx context.Context) error {
	const op = "bling.Client.refresh"

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.creds.RefreshToken())

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/oauth/token",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("Authorization", "Basic "+c.creds.BasicAuth())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", op, &APIError{
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        ErrRefreshRejected,
		})
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrRefreshRejected, err)
	}

	if err := c.validate.Struct(tr); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrRefreshRejected, err)
	}

	c.creds.Update(tr.AccessToken, tr.RefreshToken)

	c.log.Info("bling token renewed", slog.Int("expires_in", tr.ExpiresIn))

	return nil
}
