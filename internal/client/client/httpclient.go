package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrijs2005/marketdesk/internal/logging"
)

const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Options configures an HTTPClient.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    logging.Logger
}

type HTTPClient struct {
	baseURL   *url.URL
	http      *http.Client
	log       logging.Logger
	requestID func() string
}

// New builds the client. An empty Transport means http.DefaultTransport;
// either way it is wrapped with otelhttp.
func New(opts Options) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop{}
	}

	return &HTTPClient{
		baseURL:   base,
		http:      &http.Client{Timeout: opts.Timeout, Transport: otelhttp.NewTransport(transport)},
		log:       log,
		requestID: uuid.NewString,
	}, nil
}

// request describes one API call.
type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

// pathSegment escapes a caller-supplied id for use as one path element.
func pathSegment(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "." || id == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return url.PathEscape(id), nil
}

// endpoint joins the escaped path p onto the base URL. RawPath keeps escaped
// separators inside ids from being decoded back into path elements.
func (c *HTTPClient) endpoint(p string, q url.Values) string {
	u := *c.baseURL
	raw := path.Join(c.baseURL.EscapedPath(), p)
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		unescaped = raw
	}
	u.Path, u.RawPath = unescaped, raw
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// do sends r and decodes a 2xx JSON body into out (when out is non-nil).
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), r.body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	reqID := c.requestID()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set(AuthorizationHeader, "Bearer "+r.token)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	log := c.log.With("request_id", reqID, "method", r.method, "path", r.path)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "response", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		log.Warn(ctx, "api error", "status", apiErr.Status, "message", apiErr.Message)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, p, token string, in, out any) error {
	r := request{method: method, path: p, token: token}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r.body = bytes.NewReader(b)
		r.contentType = "application/json"
	}
	return c.do(ctx, r, out)
}

func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// decodeAPIError reads the server's error payload. Both {"message": ...} and
// {"error": ...} shapes are understood; anything else leaves Message empty.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Kind: kindForStatus(resp.StatusCode)}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
