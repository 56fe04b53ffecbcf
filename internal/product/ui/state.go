// Package ui holds the client side state of the product board: the raw list
// fetched from the API, the filtered and sorted view derived from it, the
// draft being typed, the banner message and the pending delete.
package ui

import (
	"fmt"
	"slices"
	"sync"

	"github.com/abgdnv/productboard/internal/product/service"
)

type SortField string

const (
	SortID        SortField = "id"
	SortName      SortField = "name"
	SortPrice     SortField = "price"
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
)

// SortFields lists the sortable columns in display order.
var SortFields = []SortField{SortID, SortName, SortPrice, SortCreatedAt, SortUpdatedAt}

// ParseSortField accepts a column name as shown in SortFields.
func ParseSortField(s string) (SortField, error) {
	f := SortField(s)
	if !slices.Contains(SortFields, f) {
		return "", fmt.Errorf("unknown sort field %q", s)
	}
	return f, nil
}

type MessageKind int

const (
	MessageSuccess MessageKind = iota
	MessageError
)

type Message struct {
	Kind MessageKind
	Text string
}

// Draft is the product being entered. Price stays text until the API parses it.
type Draft struct {
	Name  string
	Price string
}

type State struct {
	Products      []service.ProductDto
	View          []service.ProductDto
	Draft         Draft
	Loading       bool
	Message       *Message
	Search        string
	SortField     SortField
	SortDesc      bool
	PendingDelete *service.ProductDto
}

// clone copies the slices and pointers so a snapshot cannot alias store state.
func (s State) clone() State {
	out := s
	out.Products = slices.Clone(s.Products)
	out.View = slices.Clone(s.View)
	if s.Message != nil {
		m := *s.Message
		out.Message = &m
	}
	if s.PendingDelete != nil {
		p := *s.PendingDelete
		out.PendingDelete = &p
	}
	return out
}

type Listener func(State)

// Store owns the State. Every change goes through update, which re-derives
// the view and then notifies listeners with a snapshot in change order.
// Listeners run without any lock held and may call Snapshot, but must not
// call update synchronously: it would wait for its own notification to finish.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	seq       uint64

	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	delivered  uint64
}

// NewStore starts empty, sorted by creation time with the newest first.
func NewStore() *Store {
	s := &Store{
		state: State{
			Products:  []service.ProductDto{},
			View:      []service.ProductDto{},
			SortField: SortCreatedAt,
			SortDesc:  true,
		},
		listeners: make(map[int]Listener),
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)
	return s
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers l and returns a func that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.state.View = Derive(s.state.Products, s.state.Search, s.state.SortField, s.state.SortDesc)
	snapshot := s.state.clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.seq++
	ticket := s.seq
	s.mu.Unlock()

	// wait for the notifications of earlier updates
	s.notifyMu.Lock()
	for s.delivered != ticket-1 {
		s.notifyCond.Wait()
	}
	s.notifyMu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}

	s.notifyMu.Lock()
	s.delivered = ticket
	s.notifyCond.Broadcast()
	s.notifyMu.Unlock()
}
