package ics2000

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"ics2000-gateway/internal/domain/model"
	"ics2000-gateway/internal/ports"
)

const DefaultBaseURL = "https://trustsmartcloud2.com/ics2000_api"

// Client opens authenticated sessions against the ICS-2000 cloud API. The
// wire-level command framing and payload encryption live hub-side; this is
// only the HTTP edge.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

func NewClient(baseURL string, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type wireHome struct {
	HomeID string `json:"home_id"`
	Mac    string `json:"mac"`
	AESKey string `json:"aes_key"`
}

type loginResponse struct {
	Homes []wireHome `json:"homes"`
}

// Authenticate logs in with the account API. A 401 means the hub rejected
// the account; anything else unexpected is a hub error.
func (c *Client) Authenticate(ctx context.Context, creds model.Credentials) (ports.HubSession, error) {
	form := url.Values{
		"action":           {"login"},
		"email":            {creds.Identifier},
		"password_hash":    {passwordHash(creds.Secret)},
		"device_unique_id": {"gateway"},
	}

	body, status, err := c.postForm(ctx, "/account.php", form)
	if err != nil {
		return nil, model.NewHubError("login", err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, model.ErrCredentialsRejected
	}
	if status != http.StatusOK {
		return nil, model.NewHubError("login", fmt.Errorf("unexpected status %d", status))
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, model.NewHubError("login", fmt.Errorf("decoding account response: %w", err))
	}
	if len(resp.Homes) == 0 {
		return nil, model.NewHubError("login", fmt.Errorf("account has no registered hub"))
	}

	c.logger.Debug("hub session opened", "mac", resp.Homes[0].Mac)
	return &session{
		client: c,
		creds:  creds,
		home:   resp.Homes[0],
	}, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// The account API expects the MD5 hex digest of the password, not the
// password itself.
func passwordHash(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
