package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnceAtFiresExactlyOnce(t *testing.T) {
	at := time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)
	s := onceAt{at: at}

	assert.Equal(t, at, s.Next(at.Add(-time.Hour)))
	assert.True(t, s.Next(at).IsZero())
	assert.True(t, s.Next(at.Add(time.Second)).IsZero())
}

func TestPastTimeRunsImmediately(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan struct{})
	require.NoError(t, s.At(time.Now().Add(-time.Minute), "past", func() {
		close(fired)
	}))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("past job never ran")
	}
	assert.Equal(t, 0, s.Pending())
}

func TestFutureJobFiresAndClears(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan struct{})
	require.NoError(t, s.At(time.Now().Add(150*time.Millisecond), "soon", func() {
		close(fired)
	}))
	assert.Equal(t, 1, s.Pending())

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("future job never ran")
	}

	// Entry removal happens right after the run.
	assert.Eventually(t, func() bool { return s.Pending() == 0 }, 2*time.Second, 20*time.Millisecond)
}

func TestJobPanicIsContained(t *testing.T) {
	s := New()
	defer s.Stop()

	done := make(chan struct{})
	require.NoError(t, s.At(time.Now().Add(-time.Second), "boom", func() {
		defer close(done)
		panic("job exploded")
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("panicking job never ran")
	}
}
