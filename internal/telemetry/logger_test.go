package telemetry

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type staticSampler struct {
	mu    sync.Mutex
	stats Stats
}

func (s *staticSampler) TelemetryStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *staticSampler) set(stats Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

func TestLogs_EmitsSnapshotsOnTick(t *testing.T) {
	out := &syncBuffer{}
	logger := zerolog.New(out)
	mock := clock.NewMock()
	sampler := &staticSampler{}

	logs := New(context.Background(), logger, mock, time.Second, sampler)
	defer func() { require.NoError(t, logs.Close()) }()

	// Give the loop goroutine a moment to install its ticker before the
	// mock clock advances.
	time.Sleep(10 * time.Millisecond)

	sampler.set(Stats{
		Entries: 3,
		Bytes:   2048,
		Hits:    10,
		Misses:  5,
	})

	mock.Add(time.Second)

	require.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, `"activity"`) && strings.Contains(s, `"storage"`)
	}, time.Second, 5*time.Millisecond)

	s := out.String()
	require.Contains(t, s, `"hits":10`)
	require.Contains(t, s, `"misses":5`)
	require.Contains(t, s, `"entries":3`)
	require.Contains(t, s, `"size":"2KB 0B"`)
}

func TestLogs_DeltasBetweenTicks(t *testing.T) {
	out := &syncBuffer{}
	logger := zerolog.New(out)
	mock := clock.NewMock()
	sampler := &staticSampler{}

	sampler.set(Stats{Hits: 100})
	logs := New(context.Background(), logger, mock, time.Second, sampler)
	defer func() { _ = logs.Close() }()

	time.Sleep(10 * time.Millisecond)

	// No activity between construction and the first tick: delta is zero.
	mock.Add(time.Second)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"hits":0`)
	}, time.Second, 5*time.Millisecond)

	sampler.set(Stats{Hits: 140})
	mock.Add(time.Second)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"hits":40`)
	}, time.Second, 5*time.Millisecond)
}

func TestLogs_CloseStopsLoop(t *testing.T) {
	out := &syncBuffer{}
	mock := clock.NewMock()
	logs := New(context.Background(), zerolog.New(out), mock, time.Second, &staticSampler{})

	require.Equal(t, time.Second, logs.Interval())
	require.NoError(t, logs.Close())
	require.NoError(t, logs.Close())
}
