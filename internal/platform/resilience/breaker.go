package resilience

import (
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
)

var ErrCircuitOpen = crerr.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		FailureThreshold: 3,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   1,
	}
}

func (c BreakerConfig) normalized() BreakerConfig {
	defaults := DefaultBreakerConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return c
}

// Breaker stops calling an upstream after consecutive failures and probes it
// again once OpenTimeout has passed. A disabled breaker always lets calls through.
type Breaker struct {
	mu  sync.Mutex
	cfg BreakerConfig

	state     CircuitState
	failures  int
	openedAt  time.Time
	probes    int
	successes int
	now       func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	return &Breaker{
		cfg:   cfg.normalized(),
		state: CircuitStateClosed,
		now:   time.Now,
	}
}

// Execute runs fn when the breaker allows it. Errors for which countFailure
// returns false do not trip the breaker; a nil countFailure counts every error.
func (b *Breaker) Execute(fn func() error, countFailure func(error) bool) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := fn()
	if err != nil && (countFailure == nil || countFailure(err)) {
		b.recordFailure()
		return err
	}
	b.recordSuccess()
	return err
}

func (b *Breaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *Breaker) allow() error {
	if !b.cfg.Enabled {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.state = CircuitStateHalfOpen
		b.probes, b.successes = 0, 0
		fallthrough
	case CircuitStateHalfOpen:
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *Breaker) recordSuccess() {
	if !b.cfg.Enabled {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.probes--
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxReq && b.probes <= 0 {
			b.state = CircuitStateClosed
			b.failures, b.probes, b.successes = 0, 0, 0
		}
	}
}

func (b *Breaker) recordFailure() {
	if !b.cfg.Enabled {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateClosed {
		b.failures++
		if b.failures < b.cfg.FailureThreshold {
			return
		}
	}
	b.state = CircuitStateOpen
	b.openedAt = b.now()
	b.probes, b.successes = 0, 0
}
