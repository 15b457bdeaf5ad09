package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

type state uint8

const (
	closed state = iota + 1
	open
	halfOpen
)

var ErrOpen = errors.New("circuit breaker is open")

// CircuitBreaker shields a remote dependency: failures over a rolling
// window of calls trip it open, and after a cooldown it probes half-open
// until enough consecutive successes close it again.
type CircuitBreaker interface {
	Call(service func() error) error
	Reset()
}

type breaker struct {
	mu sync.Mutex

	state       state
	window      []bool // true = failed
	pos         int
	failures    int
	threshold   float64
	cooldown    time.Duration
	trippedAt   time.Time
	probeQuota  int
	probeStreak int
}

func New(windowSize int, cooldown time.Duration, failureRate float64, recoveryProbes int) CircuitBreaker {
	return &breaker{
		state:      closed,
		window:     make([]bool, windowSize),
		threshold:  failureRate,
		cooldown:   cooldown,
		probeQuota: recoveryProbes,
	}
}

func (b *breaker) Call(service func() error) error {
	b.mu.Lock()
	if b.state == open {
		if time.Since(b.trippedAt) <= b.cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.state = halfOpen
		b.probeStreak = 0
	}
	b.mu.Unlock()

	err := service()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.record(err != nil)

	if b.state == halfOpen {
		if err != nil {
			b.state = open
			b.trippedAt = time.Now()
			b.probeStreak = 0
			return err
		}
		b.probeStreak++
		if b.probeStreak > b.probeQuota {
			b.reset()
		}
		return err
	}

	if float64(b.failures)/float64(len(b.window)) >= b.threshold {
		b.state = open
		b.trippedAt = time.Now()
		b.probeStreak = 0
	}
	return err
}

// record keeps a running failure count so tripping stays O(1).
func (b *breaker) record(failed bool) {
	if b.window[b.pos] {
		b.failures--
	}
	b.window[b.pos] = failed
	if failed {
		b.failures++
	}
	b.pos = (b.pos + 1) % len(b.window)
}

func (b *breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
}

func (b *breaker) reset() {
	for i := range b.window {
		b.window[i] = false
	}
	b.failures = 0
	b.pos = 0
	b.probeStreak = 0
	b.state = closed
}
