// Package api runs the three workflow operations against either the live
// backend or the local mock, as decided by the mode selector on every call.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-flow/internal/backend"
	"github.com/spigell/resume-flow/internal/logger"
	"github.com/spigell/resume-flow/internal/mock"
	"github.com/spigell/resume-flow/internal/mode"
	"github.com/spigell/resume-flow/internal/resume"
)

// Transport answers workflow calls with decoded JSON bodies.
type Transport interface {
	Upload(ctx context.Context, file *resume.File) (any, error)
	Analyze(ctx context.Context, info *resume.Info) (any, error)
	Match(ctx context.Context, info *resume.Info, jd string) (any, error)
}

// Config is fixed at process start.
type Config struct {
	Mode      mode.Mode
	BaseURL   string
	MockDelay time.Duration
	Timeout   time.Duration
	UserAgent string
}

type Client struct {
	selector mode.Selector
	live     Transport
	mock     Transport
	logger   *zap.Logger
}

// New builds a client with the HTTP backend and the mock responder.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	live, err := backend.New(log.Named("backend"), cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if cfg.UserAgent != "" {
		live.UserAgent = cfg.UserAgent
	}

	return NewWithTransports(mode.Static(cfg.Mode), live, mock.New(cfg.MockDelay, log.Named("mock")), log), nil
}

func NewWithTransports(selector mode.Selector, live, mocked Transport, log *zap.Logger) *Client {
	if selector == nil {
		selector = mode.Static(mode.Mock)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{selector: selector, live: live, mock: mocked, logger: log}
}

// Mode reports the mode the next call will use.
func (c *Client) Mode() string {
	return mode.Name(c.selector)
}

// UploadResume sends the file. The file is not checked for nil here; that is
// the caller's precondition.
func (c *Client) UploadResume(ctx context.Context, file *resume.File) (*UploadResult, error) {
	body, err := c.call(ctx, OpUpload, func(ctx context.Context, t Transport) (any, error) {
		return t.Upload(ctx, file)
	})
	if err != nil {
		return nil, err
	}

	result := decodeUpload(body)
	c.reportProblems(OpUpload, result.Problems)
	return result, nil
}

func (c *Client) AnalyzeResume(ctx context.Context, info *resume.Info) (*Analysis, error) {
	info = info.Clone()
	body, err := c.call(ctx, OpAnalyze, func(ctx context.Context, t Transport) (any, error) {
		return t.Analyze(ctx, info)
	})
	if err != nil {
		return nil, err
	}

	result := decodeAnalysis(body)
	c.reportProblems(OpAnalyze, result.Problems)
	return result, nil
}

func (c *Client) MatchJob(ctx context.Context, info *resume.Info, jd string) (*MatchOutcome, error) {
	info = info.Clone()
	body, err := c.call(ctx, OpMatch, func(ctx context.Context, t Transport) (any, error) {
		return t.Match(ctx, info, jd)
	})
	if err != nil {
		return nil, err
	}

	result := decodeMatch(body)
	c.reportProblems(OpMatch, result.Problems)
	return result, nil
}

// call consults the selector exactly once and routes the operation.
func (c *Client) call(ctx context.Context, op Operation, fn func(context.Context, Transport) (any, error)) (any, error) {
	live := c.selector.IsLive()
	transport := c.mock
	modeName := mode.Mock.String()
	if live {
		transport = c.live
		modeName = mode.Live.String()
	}
	if transport == nil {
		return nil, fmt.Errorf("%s: no %s transport configured", op, modeName)
	}

	requestID := uuid.NewString()
	log := logger.ForOperation(c.logger, modeName, string(op), requestID)
	log.Debug("calling")

	started := time.Now()
	body, err := fn(backend.WithRequestID(ctx, requestID), transport)
	if err != nil {
		log.Debug("call failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("call finished", zap.Duration("elapsed", time.Since(started)))
	return body, nil
}

func (c *Client) reportProblems(op Operation, problems []string) {
	if len(problems) == 0 {
		return
	}
	c.logger.Warn("response does not match the expected shape, passing it through",
		zap.String(logger.FieldOperation, string(op)),
		zap.Strings("problems", problems),
	)
}
