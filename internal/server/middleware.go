package server

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lipl/internal/models"
	"github.com/desertthunder/lipl/internal/repositories"
	"github.com/desertthunder/lipl/internal/shared"
)

// Credentials is a username/password pair parsed from a basic Authorization
// header.
type Credentials struct {
	Username string
	Password string
}

// ParseBasicAuth parses an "Authorization: Basic ..." header value.
func ParseBasicAuth(header string) (Credentials, error) {
	encoded, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return Credentials{}, fmt.Errorf("%w: unsupported scheme", shared.ErrAuthHeader)
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", shared.ErrAuthHeader, err)
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return Credentials{}, fmt.Errorf("%w: missing password", shared.ErrAuthHeader)
	}

	return Credentials{Username: username, Password: password}, nil
}

// RequestLogger attaches a request-scoped child logger carrying a fresh
// request id to the context and logs every inbound request.
func RequestLogger(base *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := models.NewID().String()
			logger := shared.WithLogger(base, "request_id", requestID)
			logger.Info("request received", "method", r.Method, "path", r.URL.Path)

			ctx := shared.ContextWithLogger(r.Context(), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BasicAuth verifies the Authorization header before any repository
// operation is reachable. Credentials are checked against the user table;
// when no user row exists for the name, the configured fallback pair is
// compared in constant time.
func BasicAuth(repo *repositories.Connection, cfg shared.AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credentials, err := ParseBasicAuth(r.Header.Get("Authorization"))
			if err != nil {
				unauthenticated(w, r)
				return
			}

			err = repo.ValidateUser(r.Context(), credentials.Username, credentials.Password)
			if errors.Is(err, shared.ErrNotFound) && matchesConfig(credentials, cfg) {
				err = nil
			}
			if err != nil {
				unauthenticated(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func matchesConfig(credentials Credentials, cfg shared.AuthConfig) bool {
	if cfg.Username == "" || cfg.Password == "" {
		return false
	}
	nameOK := subtle.ConstantTimeCompare([]byte(credentials.Username), []byte(cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(credentials.Password), []byte(cfg.Password)) == 1
	return nameOK && passOK
}

func unauthenticated(w http.ResponseWriter, r *http.Request) {
	shared.LoggerFromContext(r.Context()).Warn("request rejected", "path", r.URL.Path)
	w.Header().Set("WWW-Authenticate", `Basic realm="Lipl Api"`)
	w.WriteHeader(http.StatusUnauthorized)
}
