// Package keycloak talks to a Keycloak server over its admin and token
// REST endpoints. The admin token is obtained once and cached until
// shortly before expiry instead of being re-fetched per call.
package keycloak

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

type Config struct {
	BaseURL      string // e.g. http://keycloak:8080
	Realm        string // realm holding gateway users
	ClientID     string // confidential client for direct grants
	ClientSecret string
	AdminUser    string // admin-cli credentials in the master realm
	AdminPass    string
}

type Client struct {
	cfg        Config
	httpClient *http.Client

	mu         sync.Mutex
	adminTok   string
	adminExpAt time.Time
}

func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ---------- token endpoints ----------

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (c *Client) tokenURL(realm string) string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.cfg.BaseURL, url.PathEscape(realm))
}

func (c *Client) usersURL(path string) string {
	return fmt.Sprintf("%s/admin/realms/%s/users%s", c.cfg.BaseURL, url.PathEscape(c.cfg.Realm), path)
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, domain.ErrProvider(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrProviderUnavailable(err)
	}
	return resp, nil
}

// adminToken returns a cached admin access token, refreshing it when it
// is within 10 seconds of expiry.
func (c *Client) adminToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.adminTok != "" && time.Now().Before(c.adminExpAt.Add(-10*time.Second)) {
		return c.adminTok, nil
	}

	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {"admin-cli"},
		"username":   {c.cfg.AdminUser},
		"password":   {c.cfg.AdminPass},
	}
	resp, err := c.postForm(ctx, c.tokenURL("master"), form)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", domain.ErrProvider(fmt.Errorf("admin token request: status %d", resp.StatusCode))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", domain.ErrProvider(err)
	}
	if tok.AccessToken == "" {
		return "", domain.ErrProvider(fmt.Errorf("admin token request: empty access_token"))
	}

	c.adminTok = tok.AccessToken
	c.adminExpAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.adminTok, nil
}

// DirectGrant performs the resource-owner password flow against the
// gateway realm. The provider token is discarded; success means the
// credentials are valid.
func (c *Client) DirectGrant(ctx context.Context, email, password string) error {
	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {c.cfg.ClientID},
		"username":   {email},
		"password":   {password},
	}
	if c.cfg.ClientSecret != "" {
		form.Set("client_secret", c.cfg.ClientSecret)
	}

	resp, err := c.postForm(ctx, c.tokenURL(c.cfg.Realm), form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusBadRequest:
		// Keycloak answers 401 for bad credentials, 400 for disabled accounts
		return domain.ErrInvalidCredentials()
	default:
		return domain.ErrProvider(fmt.Errorf("direct grant: status %d", resp.StatusCode))
	}
}

// ---------- admin user API ----------

type kcCredential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type kcUser struct {
	ID               string              `json:"id,omitempty"`
	Username         string              `json:"username,omitempty"`
	Email            string              `json:"email,omitempty"`
	FirstName        string              `json:"firstName,omitempty"`
	LastName         string              `json:"lastName,omitempty"`
	Enabled          bool                `json:"enabled"`
	CreatedTimestamp int64               `json:"createdTimestamp,omitempty"`
	Attributes       map[string][]string `json:"attributes,omitempty"`
	Credentials      []kcCredential      `json:"credentials,omitempty"`
}

func (c *Client) doAdmin(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	tok, err := c.adminToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, domain.ErrProvider(err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrProviderUnavailable(err)
	}
	return resp, nil
}

// CreateUser registers the user and returns its provider-assigned ID,
// parsed from the Location header of the 201 response.
func (c *Client) CreateUser(ctx context.Context, u kcUser) (string, error) {
	payload, err := json.Marshal(u)
	if err != nil {
		return "", domain.ErrProvider(err)
	}

	resp, err := c.doAdmin(ctx, http.MethodPost, c.usersURL(""), strings.NewReader(string(payload)))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusCreated:
		loc := resp.Header.Get("Location")
		id := loc[strings.LastIndex(loc, "/")+1:]
		if id == "" {
			return "", domain.ErrProvider(fmt.Errorf("create user: missing id in Location header"))
		}
		return id, nil
	case http.StatusConflict:
		return "", domain.ErrProviderConflict()
	default:
		return "", domain.ErrProvider(fmt.Errorf("create user: status %d", resp.StatusCode))
	}
}

// FindByEmail does an exact-match search and returns the single user.
func (c *Client) FindByEmail(ctx context.Context, email string) (kcUser, error) {
	q := url.Values{
		"email": {email},
		"exact": {"true"},
	}
	resp, err := c.doAdmin(ctx, http.MethodGet, c.usersURL("?"+q.Encode()), nil)
	if err != nil {
		return kcUser{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return kcUser{}, domain.ErrProvider(fmt.Errorf("search users: status %d", resp.StatusCode))
	}

	var users []kcUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return kcUser{}, domain.ErrProvider(err)
	}
	if len(users) == 0 {
		return kcUser{}, domain.ErrUserNotFound()
	}
	return users[0], nil
}

func (c *Client) FindByID(ctx context.Context, id string) (kcUser, error) {
	resp, err := c.doAdmin(ctx, http.MethodGet, c.usersURL("/"+url.PathEscape(id)), nil)
	if err != nil {
		return kcUser{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var u kcUser
		if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
			return kcUser{}, domain.ErrProvider(err)
		}
		return u, nil
	case http.StatusNotFound:
		return kcUser{}, domain.ErrUserNotFound()
	default:
		return kcUser{}, domain.ErrProvider(fmt.Errorf("get user: status %d", resp.StatusCode))
	}
}

// UpdateUser PUTs the full representation. Callers fetch, merge, then
// call this, since Keycloak replaces the record wholesale.
func (c *Client) UpdateUser(ctx context.Context, u kcUser) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return domain.ErrProvider(err)
	}

	resp, err := c.doAdmin(ctx, http.MethodPut, c.usersURL("/"+url.PathEscape(u.ID)), strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return domain.ErrUserNotFound()
	default:
		return domain.ErrProvider(fmt.Errorf("update user: status %d", resp.StatusCode))
	}
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	resp, err := c.doAdmin(ctx, http.MethodDelete, c.usersURL("/"+url.PathEscape(id)), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return domain.ErrUserNotFound()
	default:
		return domain.ErrProvider(fmt.Errorf("delete user: status %d", resp.StatusCode))
	}
}
