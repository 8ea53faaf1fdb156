// Package mock answers workflow calls locally with canned bodies after an artificial delay.
package mock

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-flow/internal/resume"
	"github.com/spigell/resume-flow/internal/utils"
)

// DefaultDelay emulates network latency.
const DefaultDelay = 500 * time.Millisecond

const (
	mockScore   = 92
	mockPercent = 87
)

var (
	mockKeywords = []string{"Python", "Streamlit", "FastAPI"}
	mockMissing  = []string{"Docker", "K8s"}
)

type Responder struct {
	delay  time.Duration
	logger *zap.Logger
}

func New(delay time.Duration, logger *zap.Logger) *Responder {
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{delay: delay, logger: logger}
}

func (r *Responder) Delay() time.Duration {
	return r.delay
}

// Bodies use the value types encoding/json decodes into, so callers handle
// mock and live responses identically.

// Upload reflects only the file name and size; the content is never read.
func (r *Responder) Upload(ctx context.Context, file *resume.File) (any, error) {
	info := map[string]any{}
	if file != nil {
		info["name"] = file.Name
		info["size"] = float64(file.Size)
	}
	return r.respond(ctx, "upload", map[string]any{"resume_info": info})
}

func (r *Responder) Analyze(ctx context.Context, _ *resume.Info) (any, error) {
	return r.respond(ctx, "analyze", map[string]any{
		"score":    float64(mockScore),
		"keywords": jsonStrings(mockKeywords),
	})
}

func (r *Responder) Match(ctx context.Context, _ *resume.Info, _ string) (any, error) {
	return r.respond(ctx, "match", map[string]any{
		"match_result": map[string]any{
			"percent": float64(mockPercent),
			"missing": jsonStrings(mockMissing),
		},
	})
}

func (r *Responder) respond(ctx context.Context, operation string, body map[string]any) (any, error) {
	r.logger.Debug("serving mock response", zap.String("operation", operation), zap.Duration("delay", r.delay))

	if err := utils.WaitFor(ctx, r.delay); err != nil {
		return nil, err
	}

	return body, nil
}

// jsonStrings builds the same shape encoding/json produces for a string array.
func jsonStrings(in []string) []any {
	out := make([]any, len(in))
	for idx, v := range in {
		out[idx] = v
	}
	return out
}
