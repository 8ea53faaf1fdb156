// Package backend is the HTTP transport for the remote resume-evaluation service.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/spigell/resume-flow/internal/resume"
)

const (
	DefaultURL = "https://fastapi-service-api-ajqdejroyv.cn-hangzhou.fcapp.run"
	userAgent  = "spigell/resume-flow"

	UploadPath  = "/upload/resume"
	AnalyzePath = "/analyze/resume"
	MatchPath   = "/match/resume"

	uploadField = "file"
)

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New creates a client for baseURL. A zero timeout leaves requests unbounded
// apart from the caller's context. Cookies set by the service are kept for the
// lifetime of the client and sent back on every call.
func New(logger *zap.Logger, baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultURL
	}

	return &Client{
		logger: logger,
		APIURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		UserAgent: userAgent,
	}, nil
}

// Upload sends the file as multipart form data in the "file" field.
func (c *Client) Upload(ctx context.Context, file *resume.File) (any, error) {
	return c.postFile(ctx, UploadPath, uploadField, file)
}

// Analyze posts the resume info verbatim.
func (c *Client) Analyze(ctx context.Context, info *resume.Info) (any, error) {
	return c.postJSON(ctx, AnalyzePath, info)
}

type matchRequest struct {
	ResumeInfo     *resume.Info   `json:"resume_info"`
	JobDescription jobDescription `json:"job_description"`
}

type jobDescription struct {
	Description string `json:"description"`
}

// Match posts the resume info together with the job description.
func (c *Client) Match(ctx context.Context, info *resume.Info, jd string) (any, error) {
	return c.postJSON(ctx, MatchPath, matchRequest{
		ResumeInfo:     info,
		JobDescription: jobDescription{Description: jd},
	})
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("%s%s", c.APIURL, path)
}
