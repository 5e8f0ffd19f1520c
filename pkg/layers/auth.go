package layers

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/Suhaibinator/SLayer/pkg/service"
	"go.uber.org/zap"
)

// AuthProvider defines an interface for authentication providers.
// Providers read credentials through the backend's RequestInfo, so the same
// provider works on every backend.
type AuthProvider interface {
	// Authenticate reports whether the request carrying the given header
	// lookup is authenticated.
	Authenticate(ctx context.Context, header func(name string) string) bool
}

// AuthProviderFunc is an adapter to allow the use of ordinary functions as AuthProviders.
type AuthProviderFunc func(ctx context.Context, header func(name string) string) bool

// Authenticate calls f(ctx, header).
func (f AuthProviderFunc) Authenticate(ctx context.Context, header func(name string) string) bool {
	return f(ctx, header)
}

// BearerTokenProvider provides Bearer Token Authentication.
// It can validate tokens against a predefined map or using a custom validator function.
type BearerTokenProvider struct {
	ValidTokens map[string]bool         // token -> valid
	Validator   func(token string) bool // optional token validator
}

// Authenticate authenticates a request using the Authorization header.
func (p *BearerTokenProvider) Authenticate(_ context.Context, header func(string) string) bool {
	token, ok := strings.CutPrefix(header("Authorization"), "Bearer ")
	if !ok || token == "" {
		return false
	}
	if p.Validator != nil {
		return p.Validator(token)
	}
	return p.ValidTokens[token]
}

// APIKeyProvider provides API Key Authentication from a request header.
type APIKeyProvider struct {
	ValidKeys map[string]bool // key -> valid
	Header    string          // header name (e.g., "X-API-Key")
}

// Authenticate checks the configured header against the valid keys.
func (p *APIKeyProvider) Authenticate(_ context.Context, header func(string) string) bool {
	if p.Header == "" {
		return false
	}
	key := header(p.Header)
	return key != "" && p.ValidKeys[key]
}

// BasicAuthProvider provides HTTP Basic Authentication.
// It validates username and password credentials against a predefined map.
type BasicAuthProvider struct {
	Credentials map[string]string // username -> password
}

// Authenticate decodes the Basic Authorization header and checks the credentials.
func (p *BasicAuthProvider) Authenticate(_ context.Context, header func(string) string) bool {
	encoded, ok := strings.CutPrefix(header("Authorization"), "Basic ")
	if !ok {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return false
	}
	expected, exists := p.Credentials[username]
	if !exists {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
}

// Auth is a layer that rejects unauthenticated requests with a 401 failure
// response without invoking the inner service. A nil logger is allowed.
func Auth[Req, Res any](backend service.Backend[Req, Res], provider AuthProvider, logger *zap.Logger) service.Layer[Req, Res] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return service.Around(func(c service.Context[Req, Res]) Res {
		req := c.Request
		header := func(name string) string { return backend.Header(req, name) }
		if provider.Authenticate(c.Ctx, header) {
			return c.Forward()
		}

		path := backend.Path(req)
		fields := []zap.Field{
			zap.String("method", backend.Method(req)),
			zap.String("path", path),
			zap.String("remote_addr", backend.RemoteAddr(req)),
		}
		if traceID := GetTraceIDFromContext(c.Ctx); traceID != "" {
			fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
		}
		logger.Warn("Authentication failed", fields...)
		return backend.ErrorResponse(path, unauthorizedError())
	})
}
