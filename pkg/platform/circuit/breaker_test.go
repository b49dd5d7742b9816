package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New("lookup", WithFailureThreshold(3))

	assert.False(t, b.Record(false).Changed())
	assert.False(t, b.Record(false).Changed())
	assert.NoError(t, b.Check())

	tr := b.Record(false)
	assert.True(t, tr.Opened)
	assert.Equal(t, StateOpen, b.State())
	assert.EqualError(t, b.Check(), "lookup circuit open")

	// further failures do not re-trigger the transition
	assert.False(t, b.Record(false).Changed())
}

func TestBreaker_SuccessResetsFailureRun(t *testing.T) {
	b := New("lookup", WithFailureThreshold(2))

	b.Record(false)
	b.Record(true)
	b.Record(false)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_ClosesAfterSuccesses(t *testing.T) {
	b := New("registration", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.Record(false)
	assert.Equal(t, StateOpen, b.State())

	assert.False(t, b.Record(true).Changed())
	// a failure while recovering restarts the success count
	b.Record(false)
	assert.False(t, b.Record(true).Changed())
	tr := b.Record(true)
	assert.True(t, tr.Closed)
	assert.NoError(t, b.Check())
}

func TestBreaker_IgnoresInvalidThresholds(t *testing.T) {
	b := New("lookup", WithFailureThreshold(0), WithSuccessThreshold(-1))
	for range 4 {
		b.Record(false)
	}
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Record(false).Opened)
}

func TestBreaker_NilIsNoop(t *testing.T) {
	var b *Breaker
	assert.False(t, b.Record(false).Changed())
}

func TestBreaker_Reset(t *testing.T) {
	b := New("lookup", WithFailureThreshold(1))
	b.Record(false)
	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}

func TestBreaker_ConcurrentRecord(t *testing.T) {
	b := New("lookup", WithFailureThreshold(501))
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				b.Record(false)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Record(false).Opened)
}
