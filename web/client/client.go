package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	aerrors "go.hackfix.me/benchd/app/errors"
	stypes "go.hackfix.me/benchd/web/server/types"
)

// Client is a friendly interface over the benchd HTTP API.
type Client struct {
	*http.Client
	baseURL *url.URL
	logger  *slog.Logger
}

// New returns a new client for the server at address, which can either be a
// [host]:port pair or a full http(s) URL. An empty host is replaced by
// localhost.
func New(address string, logger *slog.Logger) (*Client, error) {
	baseURL, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	return &Client{
		Client:  &http.Client{Timeout: time.Minute},
		baseURL: baseURL,
		logger:  logger.With("component", "web-client"),
	}, nil
}

// BaseURL returns the URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func parseAddress(address string) (*url.URL, error) {
	if !strings.Contains(address, "://") {
		host, port, err := net.SplitHostPort(address)
		if err != nil {
			return nil, aerrors.NewWithCause("invalid server address", err, "address", address)
		}
		if host == "" {
			host = "localhost"
		}
		return &url.URL{Scheme: "http", Host: net.JoinHostPort(host, port)}, nil
	}

	u, err := url.Parse(address)
	if err != nil {
		return nil, aerrors.NewWithCause("invalid server address", err, "address", address)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, aerrors.NewWith("unsupported URL scheme", "address", address, "scheme", u.Scheme)
	}

	return u, nil
}

// get sends a GET request to path and returns the response if its status is
// 200 OK. The caller must close the response body. The returned errFields are
// meant to be attached to any further error.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, []any, error) {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	errFields := []any{"url", u.String(), "method", http.MethodGet}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errFields, aerrors.NewWithCause("failed creating request", err, errFields...)
	}

	c.logger.Debug("sending request", errFields...)
	resp, err := c.Do(req)
	if err != nil {
		return nil, errFields, aerrors.NewWithCause("failed sending request", err, errFields...)
	}

	errFields = append(errFields, "status_code", resp.StatusCode, "status", resp.Status)
	if resp.StatusCode == http.StatusOK {
		return resp, errFields, nil
	}

	defer resp.Body.Close()
	var errResp stypes.Response
	if body, rerr := io.ReadAll(resp.Body); rerr == nil && json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		errFields = append(errFields, "cause", errResp.Error)
	}

	return nil, errFields, aerrors.NewWith("request failed", errFields...)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst any) (rerr error) {
	resp, errFields, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	defer func() {
		if err = resp.Body.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("failed closing response body: %w", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return aerrors.NewWithCause("failed reading response body", err, errFields...)
	}

	if err = json.Unmarshal(respBody, dst); err != nil {
		return aerrors.NewWithCause("failed unmarshalling response body", err, errFields...)
	}

	return nil
}
