package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-flow/internal/resume"
	"github.com/spigell/resume-flow/internal/utils"
)

const (
	contentType     = "application/json"
	requestIDHeader = "X-Request-ID"
	maxPreview      = 200
)

type requestIDKey struct{}

// WithRequestID attaches a correlation id that is sent as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id carried by ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (c *Client) postFile(ctx context.Context, path, field string, file *resume.File) (any, error) {
	url := c.url(path)

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	part, err := w.CreateFormFile(field, file.Name)
	if err != nil {
		return nil, &Error{Path: path, URL: url, Err: fmt.Errorf("create form file: %w", err)}
	}
	if file.Content != nil {
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, &Error{Path: path, URL: url, Err: fmt.Errorf("read %s: %w", file.Name, err)}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &Error{Path: path, URL: url, Err: fmt.Errorf("close multipart writer: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &b)
	if err != nil {
		return nil, &Error{Path: path, URL: url, Err: err}
	}

	req = c.setHeaders(ctx, req)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, path)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (any, error) {
	url := c.url(path)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Path: path, URL: url, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Path: path, URL: url, Err: err}
	}

	req = c.setHeaders(ctx, req)
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("request payload",
		zap.String("url", url),
		zap.String("payload_preview", utils.TruncateForLog(string(body), maxPreview)),
	)

	return c.do(req, path)
}

// do sends the request and decodes the body. The status code is not
// interpreted: any JSON body is handed back as-is.
func (c *Client) do(req *http.Request, path string) (any, error) {
	url := req.URL.String()

	resp, err := c.request(req)
	if err != nil {
		return nil, &Error{Path: path, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Path: path, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("got response",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
	)

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &Error{
			Path:       path,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response %q: %w", utils.TruncateForLog(string(data), maxPreview), err),
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("backend answered with error status, forwarding body",
			zap.String("url", url),
			zap.String("status", resp.Status),
		)
	}

	return decoded, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	)
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request) *http.Request {
	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set(requestIDHeader, id)

	return req
}
