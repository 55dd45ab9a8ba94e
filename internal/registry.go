package internal

import "sync"

// CancelHandle aborts the work behind one streaming request. Invoked at most
// once by the registry.
type CancelHandle func()

// RequestRegistry tracks one cancellation handle per in-flight streaming
// request. It is the only shared mutable state in the engine; every method
// holds the lock across lookup and removal so abort/complete racing each
// other can never both fire a handle.
type RequestRegistry struct {
	mu      sync.Mutex
	handles map[string]CancelHandle
}

// NewRequestRegistry creates an empty registry.
func NewRequestRegistry() *RequestRegistry {
	return &RequestRegistry{handles: make(map[string]CancelHandle)}
}

// Register stores the cancellation handle for a request id. Registering an
// id that is already present is a caller bug; the newer handle wins and the
// old one is dropped without being invoked.
func (r *RequestRegistry) Register(requestID string, handle CancelHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handles[requestID]; ok {
		LogWarn("Request %s registered twice; replacing handle", requestID)
	}
	r.handles[requestID] = handle
}

// Abort invokes and removes the handle for a request id. Returns false when
// the id is unknown or the request already completed, which is an expected
// outcome rather than a fault.
func (r *RequestRegistry) Abort(requestID string) bool {
	r.mu.Lock()
	handle, ok := r.handles[requestID]
	if ok {
		delete(r.handles, requestID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	handle()
	return true
}

// Complete removes a request's handle without invoking it. Called by the
// request owner on normal or erroneous finish. Idempotent, and a no-op when
// Abort got there first.
func (r *RequestRegistry) Complete(requestID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, requestID)
}

// Has reports whether a request id currently holds an entry.
func (r *RequestRegistry) Has(requestID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[requestID]
	return ok
}

// Len returns the number of in-flight requests.
func (r *RequestRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
