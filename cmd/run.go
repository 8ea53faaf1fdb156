package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptUpload  = "Upload resume"
	PromptAnalyze = "Analyze resume"
	PromptMatch   = "Match job"
	PromptState   = "Show current resume"
	PromptExit    = "Exit"
)

var errExit = errors.New("exit requested")

var menu = promptui.Select{
	Label: "What next?",
	Items: []string{PromptUpload, PromptAnalyze, PromptMatch, PromptState, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk through the workflow interactively",
	Long: `Start an interactive session. Unless --session is given, a fresh session is
created so the resume of a previous run is not picked up.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// run is the interactive loop. Failed steps are reported and the loop goes on.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	sessionName := ""
	if !cmd.Flags().Changed("session") {
		sessionName = uuid.NewString()
	}
	s := newSession(sessionName)

	s.logger.Info("starting the resume-flow",
		zap.String("version", version),
		zap.String("mode", s.config.Mode),
	)

	for {
		_, action, err := menu.Run()
		if err != nil {
			// Ctrl+C or Ctrl+D ends the session.
			s.logger.Info("exiting", zap.String("reason", err.Error()))
			return
		}

		if err := handleAction(ctx, s, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			s.report(strings.ToLower(action), err)
		}
	}
}

func handleAction(ctx context.Context, s *session, action string) error {
	switch action {
	case PromptUpload:
		path, err := ask("Resume file")
		if err != nil {
			return err
		}
		return upload(ctx, s, path)
	case PromptAnalyze:
		return analyze(ctx, s)
	case PromptMatch:
		jd, err := ask("Job description")
		if err != nil {
			return err
		}
		return match(ctx, s, jd)
	case PromptState:
		return showState(s)
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func ask(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}

	value, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", errExit
		}
		return "", err
	}
	return strings.TrimSpace(value), nil
}
