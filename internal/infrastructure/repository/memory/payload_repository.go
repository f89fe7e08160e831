package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/sportstream/internal/domain/match"
)

// PayloadRepository keeps the last payload in process. Used by tests and by
// dry runs that must not touch the output file.
type PayloadRepository struct {
	mu      sync.RWMutex
	payload match.Payload
	ok      bool
	saves   int
}

func NewPayloadRepository() *PayloadRepository {
	return &PayloadRepository{}
}

// NewSeededPayloadRepository starts with previous as the last saved payload.
func NewSeededPayloadRepository(previous match.Payload) *PayloadRepository {
	return &PayloadRepository{payload: previous.Normalize(), ok: true}
}

func (r *PayloadRepository) Load(_ context.Context) (match.Payload, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.ok {
		return match.Payload{}, false, nil
	}
	return r.payload, true, nil
}

func (r *PayloadRepository) Save(_ context.Context, payload match.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payload = payload.Normalize()
	r.ok = true
	r.saves++
	return nil
}

func (r *PayloadRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}
