package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpensAfterThreshold(t *testing.T) {
	b := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		ok, _ := b.Allow()
		assert.True(t, ok)
		b.Failure()
	}
	assert.Equal(t, Open, b.State())

	ok, st := b.Allow()
	assert.False(t, ok)
	assert.Equal(t, Open, st)
}

func TestHalfOpenAfterRecoveryTimeout(t *testing.T) {
	b := New(1, 10*time.Millisecond)
	b.Allow()
	b.Failure()
	assert.Equal(t, Open, b.State())

	time.Sleep(20 * time.Millisecond)
	ok, st := b.Allow()
	assert.True(t, ok)
	assert.Equal(t, HalfOpen, st)
}

func TestHalfOpenFailureReopens(t *testing.T) {
	b := New(1, 10*time.Millisecond)
	b.Allow()
	b.Failure()
	time.Sleep(20 * time.Millisecond)

	ok, st := b.Allow()
	assert.True(t, ok)
	assert.Equal(t, HalfOpen, st)

	b.Failure()
	assert.Equal(t, Open, b.State())
}

func TestSuccessClosesFromAnyState(t *testing.T) {
	b := New(1, 10*time.Millisecond)
	b.Allow()
	b.Failure()
	time.Sleep(20 * time.Millisecond)
	b.Allow()

	b.Success()
	assert.Equal(t, Closed, b.State())

	ok, st := b.Allow()
	assert.True(t, ok)
	assert.Equal(t, Closed, st)
}

func TestOnlyOneHalfOpenProbeAdmitted(t *testing.T) {
	b := New(1, 10*time.Millisecond)
	b.Allow()
	b.Failure()
	time.Sleep(20 * time.Millisecond)

	ok1, _ := b.Allow()
	ok2, _ := b.Allow()
	assert.True(t, ok1)
	assert.False(t, ok2, "a second caller must not also be admitted as a probe")
}
