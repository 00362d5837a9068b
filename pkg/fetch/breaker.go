package fetch

import (
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

// hostBreakers holds one circuit breaker per remote host. A host that
// fails five times in a row trips its breaker; further calls to that
// host fail fast with RateLimited until the exponential backoff window
// elapses, instead of re-hitting an already-struggling or rate-limited
// API.
type hostBreakers struct {
	mu       sync.RWMutex
	breakers map[string]*circuit.Breaker
}

func newHostBreakers() *hostBreakers {
	return &hostBreakers{breakers: make(map[string]*circuit.Breaker)}
}

func (b *hostBreakers) get(host string) *circuit.Breaker {
	b.mu.RLock()
	br, ok := b.breakers[host]
	b.mu.RUnlock()
	if ok {
		return br
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if br, ok := b.breakers[host]; ok {
		return br
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 30 * time.Second
	bo.MaxInterval = 5 * time.Minute
	bo.Multiplier = 2.0
	bo.Reset()

	br = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    bo,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	})
	b.breakers[host] = br
	return br
}

// call runs fn through host's breaker.
func (b *hostBreakers) call(host string, fn func() error) error {
	br := b.get(host)
	if !br.Ready() {
		return &fetchyerrors.RateLimitedError{Host: host}
	}
	return br.Call(fn, 0)
}
