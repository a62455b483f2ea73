package provider

import (
	"context"
	"errors"
	"sync"
)

// Scripted is a provider that replays canned responses in order. It exists so
// the agent loop can be tested without a live model: model-driven control flow
// is not reproducible, the scripted boundary is.
type Scripted struct {
	mu       sync.Mutex
	queue    []*Response
	requests []*Request
	err      error
}

// NewScripted creates a scripted provider that returns the given responses
// one per Generate call.
func NewScripted(responses ...*Response) *Scripted {
	return &Scripted{queue: responses}
}

// FailWith makes every subsequent Generate call return err.
func (s *Scripted) FailWith(err error) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// Enqueue appends further responses to the script.
func (s *Scripted) Enqueue(responses ...*Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, responses...)
}

// Requests returns a copy of every request seen so far, in order.
func (s *Scripted) Requests() []*Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Scripted) Name() string { return "scripted" }

// Generate records the request and pops the next scripted response.
func (s *Scripted) Generate(_ context.Context, req *Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.queue) == 0 {
		return nil, errors.New("scripted provider: no responses left")
	}
	resp := s.queue[0]
	s.queue = s.queue[1:]
	return resp, nil
}

var _ Provider = (*Scripted)(nil)
