// Package mode decides whether workflow calls are answered by the live backend or the local mock.
package mode

import (
	"fmt"
	"strings"
)

type Mode int

const (
	Mock Mode = iota
	Live
)

func (m Mode) String() string {
	switch m {
	case Live:
		return "live"
	case Mock:
		return "mock"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Parse converts a configuration value into a Mode.
func Parse(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "live":
		return Live, nil
	case "mock", "":
		return Mock, nil
	default:
		return Mock, fmt.Errorf("unknown mode %q (expected live or mock)", value)
	}
}

// Selector reports the mode for the operation about to run.
type Selector interface {
	IsLive() bool
}

// Static is a Selector fixed for the lifetime of the process.
type Static Mode

func (s Static) IsLive() bool { return Mode(s) == Live }

func (s Static) String() string { return Mode(s).String() }

// Name returns the mode name reported by a selector.
func Name(s Selector) string {
	if s == nil {
		return Mock.String()
	}
	if s.IsLive() {
		return Live.String()
	}
	return Mock.String()
}
