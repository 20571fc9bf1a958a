package solver

import (
	"sync"
	"time"
)

type mockObserver struct {
	mu      sync.Mutex
	valid   int
	invalid int
}

func (m *mockObserver) ObserveWord(valid bool, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case valid:
		m.valid++
	default:
		m.invalid++
	}
}
