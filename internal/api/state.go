package api

import (
	"sync"

	"github.com/MikeSquared-Agency/Episcore/internal/runner"
)

// State holds the most recent run result served by the API.
type State struct {
	mu     sync.RWMutex
	latest *runner.Result
}

func NewState() *State {
	return &State{}
}

func (s *State) Set(res *runner.Result) {
	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()
}

// Latest returns the last result, or nil before the first run. Callers must
// not modify it.
func (s *State) Latest() *runner.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
