// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"bookbrowser/internal/auth"
	"bookbrowser/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Epoch is the starting reading of NewClock.
var Epoch = time.UnixMilli(1_700_000_000_000)

// Clock is a manually advanced clock. Pass Now where a func() time.Time is
// expected.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock() *Clock { return &Clock{t: Epoch} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// Book returns a minimal decoded book, shaped the way the catalog decoder
// produces it.
func Book(id string) entity.Book {
	return entity.Book{
		ID:         id,
		Title:      fmt.Sprintf("Book %s", id),
		Authors:    []string{},
		Categories: []string{},
	}
}

// GenerateTestToken signs a valid token for subject.
func GenerateTestToken(secret, subject string) string {
	token, _, _ := auth.GenerateToken(secret, subject, time.Hour)
	return token
}

// GenerateExpiredToken signs a token that expired an hour ago.
func GenerateExpiredToken(secret, subject string) string {
	c := auth.Claims{
		Sub: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a JSON request; a nil body sends none.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth is NewRequest with a bearer token, when token is set.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}
