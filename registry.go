package hotline

import "sync"

// pendingRequest is the one-shot resolver a caller awaits for a given
// transaction id.
type pendingRequest struct {
	replyCh chan Transaction
	errCh   chan error
}

// registry correlates outgoing transaction ids with awaited replies.
// Insert/complete/drain critical sections never span I/O.
type registry struct {
	mu      sync.Mutex
	pending map[uint32]*pendingRequest
}

func newRegistry() *registry {
	return &registry{pending: make(map[uint32]*pendingRequest)}
}

// insert registers a resolver for id, returning the channels the
// caller selects on.
func (r *registry) insert(id uint32) *pendingRequest {
	p := &pendingRequest{
		replyCh: make(chan Transaction, 1),
		errCh:   make(chan error, 1),
	}
	r.mu.Lock()
	r.pending[id] = p
	r.mu.Unlock()
	return p
}

// remove deregisters id without resolving it, used when a caller's
// wait is cancelled.
func (r *registry) remove(id uint32) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

// completeOk resolves id with a decoded reply frame. Returns false if
// no one is waiting (a late or unsolicited reply is logged and
// dropped by the caller).
func (r *registry) completeOk(id uint32, t Transaction) bool {
	r.mu.Lock()
	p, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	p.replyCh <- t
	return true
}

// drain fails every pending holder with err; it runs once on
// disconnect.
func (r *registry) drain(err error) {
	r.mu.Lock()
	pending := r.pending
	r.pending = make(map[uint32]*pendingRequest)
	r.mu.Unlock()

	for _, p := range pending {
		p.errCh <- err
	}
}
