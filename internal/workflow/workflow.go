// Package workflow threads one uploaded resume through the upload, analyze
// and match steps and keeps it in the session slot between them.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-flow/internal/api"
	"github.com/spigell/resume-flow/internal/resume"
)

// Client is the subset of api.Client the workflow drives.
type Client interface {
	UploadResume(ctx context.Context, file *resume.File) (*api.UploadResult, error)
	AnalyzeResume(ctx context.Context, info *resume.Info) (*api.Analysis, error)
	MatchJob(ctx context.Context, info *resume.Info, jd string) (*api.MatchOutcome, error)
}

type Workflow struct {
	client Client
	state  *State
	view   ViewHost
	logger *zap.Logger
}

func New(client Client, state *State, view ViewHost, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	if state == nil {
		state = NewState(nil, logger)
	}
	if view == nil {
		view = nopView{}
	}
	return &Workflow{client: client, state: state, view: view, logger: logger}
}

func (w *Workflow) State() *State {
	return w.state
}

// Upload sends the file and, on success, makes the returned resume the
// current one. A failed call leaves the slot untouched.
func (w *Workflow) Upload(ctx context.Context, file *resume.File) (*api.UploadResult, error) {
	if file == nil {
		return nil, ErrNoFile
	}

	ticket := w.state.Begin()
	result, err := w.client.UploadResume(ctx, file)
	if err != nil {
		return nil, err
	}

	if result.Info == nil {
		w.logger.Warn("upload response carries no resume_info, keeping the previous resume",
			zap.String("file", file.Name),
		)
	} else {
		saved, err := w.state.Commit(ticket, result.Info)
		if err != nil {
			return result, err
		}
		if saved {
			w.logger.Info("resume uploaded", zap.String("file", file.Name), zap.Int64("size", file.Size))
		}
	}

	return result, w.render(SectionUpload, result.Raw)
}

// Analyze runs the analysis of the current resume.
func (w *Workflow) Analyze(ctx context.Context) (*api.Analysis, error) {
	info := w.state.Load()
	if info == nil {
		return nil, ErrNoResume
	}

	result, err := w.client.AnalyzeResume(ctx, info)
	if err != nil {
		return nil, err
	}
	w.state.MarkAnalyzed()

	return result, w.render(SectionAnalysis, result.Raw)
}

// Match compares the current resume with a job description.
func (w *Workflow) Match(ctx context.Context, jd string) (*api.MatchOutcome, error) {
	info := w.state.Load()
	if info == nil {
		return nil, ErrNoResume
	}

	jd = strings.TrimSpace(jd)
	if jd == "" {
		return nil, ErrEmptyJobDescription
	}

	result, err := w.client.MatchJob(ctx, info, jd)
	if err != nil {
		return nil, err
	}
	w.state.MarkMatched()

	return result, w.render(SectionMatch, result.Raw)
}

// Navigate switches the visible page.
func (w *Workflow) Navigate(page string) error {
	if err := w.view.Navigate(page); err != nil {
		return fmt.Errorf("navigate to %s: %w", page, err)
	}
	return nil
}

func (w *Workflow) render(section string, payload any) error {
	if err := w.view.Render(section, payload); err != nil {
		return fmt.Errorf("render %s: %w", section, err)
	}
	return nil
}
