// Package view prints workflow results to a terminal.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var (
	pageStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

var sectionTitles = map[string]string{
	"uploadResult":   "Upload result",
	"analysisResult": "Analysis result",
	"matchResult":    "Match result",
}

var pageTitles = map[string]string{
	"upload":   "Upload resume",
	"analysis": "Resume analysis",
	"match":    "Job match",
}

// Console renders payloads as indented JSON under a styled heading.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	logger  *zap.Logger
	current string
}

func NewConsole(out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{out: out, logger: logger}
}

func (c *Console) Render(section string, payload any) error {
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", section, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = fmt.Fprintf(c.out, "%s\n%s\n", sectionStyle.Render(title(sectionTitles, section)), pretty)
	return err
}

func (c *Console) Navigate(page string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if page == c.current {
		return nil
	}
	c.logger.Debug("switching page", zap.String("from", c.current), zap.String("to", page))
	c.current = page

	_, err := fmt.Fprintf(c.out, "\n%s\n", pageStyle.Render("== "+title(pageTitles, page)+" =="))
	return err
}

// Current returns the page shown last.
func (c *Console) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func title(titles map[string]string, key string) string {
	if t, ok := titles[key]; ok {
		return t
	}
	return strings.TrimSpace(key)
}
