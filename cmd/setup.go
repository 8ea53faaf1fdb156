package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-flow/internal/api"
	"github.com/spigell/resume-flow/internal/logger"
	"github.com/spigell/resume-flow/internal/mode"
	"github.com/spigell/resume-flow/internal/view"
	"github.com/spigell/resume-flow/internal/workflow"
)

// exitPrecondition is the exit code used when a step is refused before any call.
const exitPrecondition = 2

type session struct {
	config   *Config
	logger   *zap.Logger
	view     *view.Console
	workflow *workflow.Workflow
}

// newSession wires the workflow from configuration. Session overrides the
// configured session name when not empty.
func newSession(sessionName string) *session {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if sessionName != "" {
		config.Session = sessionName
	}

	selected, err := mode.Parse(config.Mode)
	if err != nil {
		logger.Fatal("parsing mode", zap.Error(err))
	}

	logger = logger.With(zap.String("session", config.Session))
	logger.Debug("starting with config", zap.Any("config", config))

	client, err := api.New(api.Config{
		Mode:      selected,
		BaseURL:   config.BackendURL,
		MockDelay: config.MockDelay,
		Timeout:   config.Timeout,
		UserAgent: config.UserAgent,
	}, logger)
	if err != nil {
		logger.Fatal("creating an api client", zap.Error(err))
	}

	store, err := workflow.NewFileStore(config.SessionDir())
	if err != nil {
		logger.Fatal("opening session state", zap.Error(err))
	}

	console := view.NewConsole(os.Stdout, logger)
	state := workflow.NewState(store, logger)

	return &session{
		config:   config,
		logger:   logger,
		view:     console,
		workflow: workflow.New(client, state, console, logger),
	}
}

// report logs a failed step. Precondition failures are notices and do not
// abort an interactive loop; the caller decides whether to exit.
func (s *session) report(operation string, err error) {
	if errors.Is(err, workflow.ErrPrecondition) {
		s.logger.Warn(err.Error(), zap.String("operation", operation))
		return
	}

	var transportErr *api.TransportError
	if errors.As(err, &transportErr) {
		s.logger.Error("backend call failed",
			zap.String("operation", operation),
			zap.String("url", transportErr.URL),
			zap.Error(err),
		)
		return
	}

	s.logger.Error(fmt.Sprintf("%s failed", operation), zap.Error(err))
}

// exitOnError reports err and terminates the process when it is not nil.
func (s *session) exitOnError(operation string, err error) {
	if err == nil {
		return
	}
	s.report(operation, err)
	_ = s.logger.Sync()

	if errors.Is(err, workflow.ErrPrecondition) {
		os.Exit(exitPrecondition)
	}
	os.Exit(1)
}
