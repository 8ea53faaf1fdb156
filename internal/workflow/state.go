package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-flow/internal/resume"
)

// SlotKey is the fixed store key of the workflow slot.
const SlotKey = "resume"

// Ticket is handed out when an upload starts. Only a ticket newer than the
// last committed one may write the slot.
type Ticket uint64

// Phase describes how far the workflow has progressed in this process.
type Phase struct {
	HasResume bool
	Analyzed  bool
	Matched   bool
}

func (p Phase) String() string {
	if !p.HasResume {
		return "empty"
	}
	parts := []string{"has-resume"}
	if p.Analyzed {
		parts = append(parts, "analyzed")
	}
	if p.Matched {
		parts = append(parts, "matched")
	}
	return strings.Join(parts, ",")
}

// State is the single-slot holder of the current resume.
type State struct {
	mu        sync.Mutex
	store     Store
	logger    *zap.Logger
	issued    Ticket
	committed Ticket
	analyzed  bool
	matched   bool
}

func NewState(store Store, logger *zap.Logger) *State {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{store: store, logger: logger}
}

// Save overwrites the slot unconditionally and supersedes uploads in flight.
func (s *State) Save(info *resume.Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	return s.write(s.issued, info)
}

// Load returns a copy of the stored resume, or nil when the slot is empty or
// holds something that does not parse.
func (s *State) Load() *resume.Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Begin reserves a ticket for an upload about to start.
func (s *State) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	return s.issued
}

// Commit writes info if no upload started after t has committed already.
// It reports whether the slot was written.
func (s *State) Commit(t Ticket, info *resume.Info) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t <= s.committed {
		s.logger.Info("discarding stale upload result",
			zap.Uint64("ticket", uint64(t)),
			zap.Uint64("committed", uint64(s.committed)),
		)
		return false, nil
	}

	if err := s.write(t, info); err != nil {
		return false, err
	}
	return true, nil
}

func (s *State) MarkAnalyzed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzed = true
}

func (s *State) MarkMatched() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matched = true
}

func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.load() == nil {
		return Phase{}
	}
	return Phase{HasResume: true, Analyzed: s.analyzed, Matched: s.matched}
}

func (s *State) write(t Ticket, info *resume.Info) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode resume info: %w", err)
	}
	if err := s.store.Set(SlotKey, data); err != nil {
		return fmt.Errorf("save resume info: %w", err)
	}

	s.committed = t
	s.analyzed = false
	s.matched = false
	return nil
}

func (s *State) load() *resume.Info {
	data, ok, err := s.store.Get(SlotKey)
	if err != nil {
		s.logger.Warn("reading workflow slot", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var info resume.Info
	if err := json.Unmarshal(data, &info); err != nil {
		s.logger.Debug("workflow slot holds malformed data, treating as empty", zap.Error(err))
		return nil
	}
	if info.Raw == nil {
		return nil
	}
	return &info
}
