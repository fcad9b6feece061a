package bling

import (
	"encoding/base64"
	"sync"
)

// Credentials owns the OAuth client pair and the current token pair. Tokens
// live only in memory and are replaced by every successful refresh.
type Credentials struct {
	clientID     string
	clientSecret string

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

func NewCredentials(clientID, clientSecret, accessToken, refreshToken string) *Credentials {
	return &Credentials{
		clientID:     clientID,
		clientSecret: clientSecret,
		accessToken:  accessToken,
		refreshToken: refreshToken,
	}
}

func (c *Credentials) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.accessToken
}

func (c *Credentials) RefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.refreshToken
}

// Update replaces both tokens at once; Bling rotates the refresh token on
// every exchange.
func (c *Credentials) Update(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = accessToken
	c.refreshToken = refreshToken
}

// BasicAuth returns the value for the token endpoint's Basic scheme.
func (c *Credentials) BasicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
}
