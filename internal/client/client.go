package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
)

// Client talks to the booking REST API. Idempotent GETs are retried up to
// getRetries times on transport errors and 5xx; mutations are sent once.
type Client struct {
	base       string
	token      string
	http       *http.Client
	getRetries int
}

func New(base, token string, timeout time.Duration, getRetries int) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if getRetries < 0 {
		getRetries = 0
	}
	return &Client{
		base:       base,
		token:      token,
		http:       &http.Client{Timeout: timeout},
		getRetries: getRetries,
	}
}

// APIError is a non-2xx response. Fields carries the backend's structured
// validation list, if any.
type APIError struct {
	Status  int
	Message string
	Fields  validation.Errors
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return e.Fields.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func IsStatus(err error, code int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == code
}

type errorBody struct {
	Error  string            `json:"error"`
	Errors validation.Errors `json:"errors"`
}

func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	ae := &APIError{Status: resp.StatusCode}
	var eb errorBody
	if json.Unmarshal(b, &eb) == nil {
		ae.Message, ae.Fields = eb.Error, eb.Errors
	} else {
		ae.Message = string(bytes.TrimSpace(b))
	}
	return ae
}

// send executes the request built by newReq and returns a 2xx response whose
// body the caller must close.
func (c *Client) send(ctx context.Context, idempotent bool, newReq func() (*http.Request, error)) (*http.Response, error) {
	attempts := 1
	if idempotent {
		attempts += c.getRetries
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			log.Printf("client: retrying (%d/%d): %v", i, attempts-1, lastErr)
		}
		req, err := newReq()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
			continue
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		lastErr = decodeError(resp)
		resp.Body.Close()
		if resp.StatusCode < 500 {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) url(path string, q url.Values) string {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// doJSON sends body (when non-nil) as JSON and decodes the response into out
// (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return err
		}
	}
	resp, err := c.send(ctx, method == http.MethodGet, func() (*http.Request, error) {
		var r io.Reader
		if payload != nil {
			r = bytes.NewReader(payload)
		}
		req, err := http.NewRequest(method, c.url(path, q), r)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
