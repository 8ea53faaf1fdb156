package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-flow/internal/resume"
	"github.com/spigell/resume-flow/internal/workflow"
)

const maxParallelMatches = 4

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a resume and make it the current one",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		s := newSession("")
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		s.exitOnError("upload", upload(context.Background(), s, path))
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the current resume",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		s := newSession("")
		s.exitOnError("analyze", analyze(context.Background(), s))
	},
}

var matchCmd = &cobra.Command{
	Use:   "match [job description]",
	Short: "Match the current resume against one or more job descriptions",
	Long: `Match the current resume against a job description given as arguments.
Each --jd-file adds another description; several descriptions are matched concurrently.`,
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession("")

		var jds []string
		if len(args) > 0 {
			jds = append(jds, strings.Join(args, " "))
		}

		paths, _ := cmd.Flags().GetStringSlice("jd-file")
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				s.logger.Fatal("reading job description", zap.String("path", path), zap.Error(err))
			}
			jds = append(jds, string(data))
		}

		s.exitOnError("match", matchAll(context.Background(), s, jds))
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the resume held by the current session",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		s := newSession("")
		s.exitOnError("state", showState(s))
	},
}

func init() {
	matchCmd.Flags().StringSlice("jd-file", nil, "read a job description from a file (repeatable)")

	rootCmd.AddCommand(uploadCmd, analyzeCmd, matchCmd, stateCmd)
}

func upload(ctx context.Context, s *session, path string) error {
	if strings.TrimSpace(path) == "" {
		return workflow.ErrNoFile
	}

	file, closer, err := resume.OpenFile(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := s.workflow.Navigate(workflow.PageUpload); err != nil {
		return err
	}
	_, err = s.workflow.Upload(ctx, file)
	return err
}

func analyze(ctx context.Context, s *session) error {
	if err := s.workflow.Navigate(workflow.PageAnalysis); err != nil {
		return err
	}
	_, err := s.workflow.Analyze(ctx)
	return err
}

func match(ctx context.Context, s *session, jd string) error {
	if err := s.workflow.Navigate(workflow.PageMatch); err != nil {
		return err
	}
	_, err := s.workflow.Match(ctx, jd)
	return err
}

// matchAll matches the current resume against every description. No
// descriptions is reported the same way as a single empty one.
func matchAll(ctx context.Context, s *session, jds []string) error {
	if len(jds) <= 1 {
		jd := ""
		if len(jds) == 1 {
			jd = jds[0]
		}
		return match(ctx, s, jd)
	}

	if err := s.workflow.Navigate(workflow.PageMatch); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelMatches)
	for i, jd := range jds {
		i, jd := i, jd
		g.Go(func() error {
			if _, err := s.workflow.Match(gCtx, jd); err != nil {
				return fmt.Errorf("job description %d: %w", i+1, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func showState(s *session) error {
	state := s.workflow.State()
	info := state.Load()

	s.logger.Info("session state",
		zap.String("dir", s.config.SessionDir()),
		zap.String("phase", state.Phase().String()),
	)
	if info == nil {
		return fmt.Errorf("%w (session %q is empty)", workflow.ErrNoResume, s.config.Session)
	}

	return s.view.Render("resume", info)
}
