// Package authsvc es el adapter HTTP contra el auth service
// (directorio de usuarios y roles de la clínica).
package authsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-patients-service/internal/platform/httpclient"
	"pet-patients-service/internal/platform/logger"
	"pet-patients-service/internal/ports/directory"
)

const (
	usersPath = "/api/users"

	// DefaultRole es el rol por el que se filtra cuando no se pide otro.
	DefaultRole = "client"

	// directoryScanLimit acota el escaneo lineal de usuarios (exists /
	// filtro por rol). El upstream no expone endpoint de existencia ni
	// filtro por rol, así que se trae una página grande y se escanea acá.
	// Limitación conocida: directorios con más de 1000 usuarios pueden
	// dar falsos "no existe".
	directoryScanLimit = 1000

	defaultPage  = 1
	defaultLimit = 100
)

var ErrNotConfigured = errors.New("authsvc client not configured")

type Config struct {
	BaseURL string
	Timeout time.Duration

	// Transport opcional (tests).
	Transport http.RoundTripper
}

type Client struct {
	http *httpclient.Client
	log  logger.Logger
}

func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = httpclient.DefaultTimeout
	}

	var hc *httpclient.Client
	if cfg.Transport != nil {
		hc = httpclient.NewWithTransport(timeout, cfg.Transport)
		hc.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	} else {
		var err error
		hc, err = httpclient.NewWithBaseURL(cfg.BaseURL, timeout)
		if err != nil {
			return nil, err
		}
	}

	if log == nil {
		log = logger.New(logger.Options{})
	}

	return &Client{
		http: hc,
		log:  log.With(map[string]any{"adapter": "authsvc"}),
	}, nil
}

// usersEnvelope es el contrato de respuesta del auth service:
// { success, message, data: { users: [...] } }
type usersEnvelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    *usersData `json:"data"`
}

type usersData struct {
	Users []directory.User `json:"users"`
}

func (c *Client) ListUsersRaw(ctx context.Context, page, limit int, bearer string) (json.RawMessage, error) {
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	var raw json.RawMessage
	url := fmt.Sprintf("%s?page=%d&limit=%d", usersPath, page, limit)
	if err := c.http.GetJSON(ctx, url, authHeaders(bearer), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", directory.ErrUnavailable, err)
	}
	return raw, nil
}

func (c *Client) ListUsersByRole(ctx context.Context, role, bearer string) ([]directory.User, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		role = DefaultRole
	}

	users, err := c.scanUsers(ctx, bearer)
	if err != nil {
		return nil, err
	}

	out := make([]directory.User, 0)
	for _, u := range users {
		if u.Role != nil && u.Role.Name == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (c *Client) UserExistsByEmail(ctx context.Context, email, bearer string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	users, err := c.scanUsers(ctx, bearer)
	if err != nil {
		// Fail closed: sin confirmación del directorio no se habilita
		// la escritura; el caller lo trata como "no existe".
		c.log.Warn("user existence check failed", map[string]any{"error": err.Error()})
		return false
	}

	for _, u := range users {
		if u.Email == email {
			return true
		}
	}
	return false
}

// scanUsers trae una página de hasta directoryScanLimit usuarios.
func (c *Client) scanUsers(ctx context.Context, bearer string) ([]directory.User, error) {
	var env usersEnvelope
	url := fmt.Sprintf("%s?page=%d&limit=%d", usersPath, defaultPage, directoryScanLimit)
	if err := c.http.GetJSON(ctx, url, authHeaders(bearer), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", directory.ErrUnavailable, err)
	}
	if !env.Success || env.Data == nil {
		return nil, fmt.Errorf("%w: unexpected response shape", directory.ErrUnavailable)
	}
	return env.Data.Users, nil
}

func authHeaders(bearer string) map[string]string {
	if strings.TrimSpace(bearer) == "" {
		return nil
	}
	return map[string]string{"Authorization": bearer}
}
