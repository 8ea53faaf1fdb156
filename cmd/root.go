package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-flow/internal/backend"
	"github.com/spigell/resume-flow/internal/mock"
)

const (
	appName        = "resume-flow"
	envPrefix      = "RESUME_FLOW"
	defaultSession = "default"
)

type Config struct {
	Mode       string        `mapstructure:"mode" validate:"oneof=live mock"`
	BackendURL string        `mapstructure:"backend-url" validate:"required,url"`
	MockDelay  time.Duration `mapstructure:"mock-delay" validate:"gte=0"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
	StateDir   string        `mapstructure:"state-dir" validate:"required"`
	Session    string        `mapstructure:"session" validate:"required,max=64,excludesall=/\\,ne=.,ne=.."`
	UserAgent  string        `mapstructure:"user-agent"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "resume-flow uploads a resume, analyzes it and matches it against job descriptions",
		Long: `resume-flow drives the upload → analyze → match workflow against the resume
evaluation service. In mock mode every step is answered locally with canned data.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-flow.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("mode", "m", "mock", "where calls are answered: live or mock")
	rootCmd.PersistentFlags().String("backend-url", backend.DefaultURL, "base URL of the live backend")
	rootCmd.PersistentFlags().Duration("mock-delay", mock.DefaultDelay, "artificial latency of mock responses")
	rootCmd.PersistentFlags().Duration("timeout", 0, "timeout of live requests (0 means none)")
	rootCmd.PersistentFlags().StringP("session", "s", "", "workflow session name (default \"default\")")
	rootCmd.PersistentFlags().String("state-dir", "", "directory holding session state")

	for _, name := range []string{"debug", "json", "mode", "backend-url", "mock-delay", "timeout", "session", "state-dir"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			log.Fatalf("binding %s flag: %v", name, err)
		}
	}

	viper.SetDefault("state-dir", defaultStateDir())
	viper.SetDefault("session", defaultSession)
	viper.SetDefault("user-agent", "")
}

func initConfig() {
	// Missing .env is fine; values may come from the environment itself.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicitly requested config must exist and parse.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	config.normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) normalize() {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	c.BackendURL = strings.TrimSpace(c.BackendURL)
	c.StateDir = strings.TrimSpace(c.StateDir)
	c.Session = strings.TrimSpace(c.Session)
	if c.Session == "" {
		c.Session = defaultSession
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) SessionDir() string {
	return filepath.Join(c.StateDir, c.Session)
}

func defaultStateDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, appName, "sessions")
}
