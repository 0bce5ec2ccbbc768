// Package session resolves the signed-in shopper from the stored token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/utafrali/storefront/internal/kvstore"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Authenticator exchanges credentials for an opaque session token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Context exposes the current session. The token is read from the key/value
// store on every call, so a login or logout is visible immediately.
type Context struct {
	kv     kvstore.Store
	auth   Authenticator
	logger *slog.Logger
	parser *jwt.Parser
}

// New creates a session context over kv. auth may be nil when logins are not
// performed through this process.
func New(kv kvstore.Store, auth Authenticator, logger *slog.Logger) *Context {
	return &Context{
		kv:     kv,
		auth:   auth,
		logger: logger,
		parser: jwt.NewParser(jwt.WithJSONNumber()),
	}
}

// Token returns the stored token, or "" when there is none.
func (c *Context) Token(ctx context.Context) string {
	token, err := c.kv.Get(ctx, kvstore.KeyToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			c.logger.WarnContext(ctx, "failed to read session token", slog.String("error", err.Error()))
		}
		return ""
	}
	return token
}

// IsAuthenticated reports whether a token is present.
func (c *Context) IsAuthenticated(ctx context.Context) bool {
	return c.Token(ctx) != ""
}

// CurrentUserID returns the subject of the stored token. The signature is not
// verified; the token only scopes device-local state. ok is false without a
// token or when the token carries no usable subject.
func (c *Context) CurrentUserID(ctx context.Context) (userID string, ok bool) {
	token := c.Token(ctx)
	if token == "" {
		return "", false
	}

	id, err := c.subject(token)
	if err != nil {
		c.logger.WarnContext(ctx, "undecodable session token", slog.String("error", err.Error()))
		return "", false
	}
	return id, true
}

func (c *Context) subject(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := c.parser.ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	switch sub := claims["sub"].(type) {
	case string:
		if sub != "" {
			return sub, nil
		}
	case json.Number:
		return sub.String(), nil
	case float64:
		return strconv.FormatFloat(sub, 'f', -1, 64), nil
	}
	return "", errors.New("token has no subject")
}

// Login authenticates and stores the returned token.
func (c *Context) Login(ctx context.Context, username, password string) error {
	if c.auth == nil {
		return apperrors.Unavailable("login is not configured")
	}

	token, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := c.kv.Set(ctx, kvstore.KeyToken, token, 0); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}

	c.logger.InfoContext(ctx, "shopper signed in", slog.String("username", username))
	return nil
}

// Logout removes the stored token.
func (c *Context) Logout(ctx context.Context) error {
	if err := c.kv.Remove(ctx, kvstore.KeyToken); err != nil {
		return fmt.Errorf("remove session token: %w", err)
	}
	c.logger.InfoContext(ctx, "shopper signed out")
	return nil
}
