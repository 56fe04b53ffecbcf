package ui

import (
	"sync"
	"time"
)

// DefaultMessageDelay is how long a banner stays visible.
const DefaultMessageDelay = 3 * time.Second

// Timer is the part of *time.Timer the messenger needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc in production.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// messenger shows one banner at a time and clears it after delay.
// A new banner cancels the pending clear and starts a fresh one; the
// generation counter keeps a clear that already fired from wiping a newer banner.
type messenger struct {
	store     *Store
	delay     time.Duration
	afterFunc AfterFunc

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

func (m *messenger) show(kind MessageKind, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.gen++
	gen := m.gen
	m.store.update(func(s *State) {
		s.Message = &Message{Kind: kind, Text: text}
	})
	m.timer = m.afterFunc(m.delay, func() { m.expire(gen) })
}

func (m *messenger) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.gen++
	m.store.update(func(s *State) {
		s.Message = nil
	})
}

func (m *messenger) expire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.timer = nil
	m.store.update(func(s *State) {
		s.Message = nil
	})
}

func (m *messenger) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
