package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	aerrors "go.hackfix.me/benchd/app/errors"
	stypes "go.hackfix.me/benchd/web/server/types"
)

// Health calls the liveness endpoint and returns the response body.
func (c *Client) Health(ctx context.Context) (_ string, rerr error) {
	resp, errFields, err := c.get(ctx, "/health", nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err = resp.Body.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("failed closing response body: %w", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", aerrors.NewWithCause("failed reading response body", err, errFields...)
	}

	return string(body), nil
}

// CPU runs the hashing workload. A negative iterations value lets the server
// use its default.
func (c *Client) CPU(ctx context.Context, iterations int) (*stypes.CPUResponse, error) {
	var query url.Values
	if iterations >= 0 {
		query = url.Values{"iterations": {strconv.Itoa(iterations)}}
	}

	var resp stypes.CPUResponse
	if err := c.getJSON(ctx, "/cpu", query, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// IO runs the temporary file workload.
func (c *Client) IO(ctx context.Context) (*stypes.IOResponse, error) {
	var resp stypes.IOResponse
	if err := c.getJSON(ctx, "/io", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// JSON runs the serialization workload and returns the decoded document.
func (c *Client) JSON(ctx context.Context) (map[string]any, error) {
	var resp map[string]any
	if err := c.getJSON(ctx, "/json", nil, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// Stream consumes the streaming endpoint, calling fn with every chunk as soon
// as it arrives, without its trailing newline. It returns the number of chunks
// received. Returning an error from fn stops the stream.
func (c *Client) Stream(ctx context.Context, fn func(chunk string) error) (n int, rerr error) {
	resp, errFields, err := c.get(ctx, "/stream", nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err = resp.Body.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("failed closing response body: %w", err)
		}
	}()

	r := bufio.NewReader(resp.Body)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			n++
			if ferr := fn(strings.TrimSuffix(line, "\n")); ferr != nil {
				return n, ferr
			}
		}
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, aerrors.NewWithCause("failed reading stream", err, errFields...)
		}
	}
}
