package resource

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Limits{MemoryBudgetBytes: 100})

	require.NoError(t, c.ReserveMemory(context.Background(), 50))
	assert.Equal(t, int64(50), c.MemoryInUse())

	require.NoError(t, c.ReserveMemory(context.Background(), 40))
	assert.Equal(t, int64(90), c.MemoryInUse())

	assert.False(t, c.TryReserveMemory(20))
	assert.Equal(t, int64(90), c.MemoryInUse())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.ReserveMemory(ctx, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryInUse())

	assert.True(t, c.TryReserveMemory(20))
	assert.Equal(t, int64(60), c.MemoryInUse())
}

func TestController_MemoryUncapped(t *testing.T) {
	c := NewController(Limits{})

	require.NoError(t, c.ReserveMemory(context.Background(), 1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryInUse())

	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryInUse())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Limits{MaxFlushWorkers: 2})

	require.NoError(t, c.AcquireWorker(context.Background()))
	require.NoError(t, c.AcquireWorker(context.Background()))
	assert.False(t, c.TryAcquireWorker())

	c.ReleaseWorker()
	assert.True(t, c.TryAcquireWorker())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.ReserveMemory(context.Background(), 1<<30))
	assert.True(t, c.TryReserveMemory(1<<30))
	c.ReleaseMemory(1 << 30)
	assert.Zero(t, c.MemoryInUse())

	require.NoError(t, c.AcquireWorker(context.Background()))
	assert.True(t, c.TryAcquireWorker())
	c.ReleaseWorker()

	require.NoError(t, c.WaitIO(context.Background(), 1<<30))
}

func TestThrottledWriter(t *testing.T) {
	c := NewController(Limits{ThroughputBytesPerSec: 1 << 20})

	var buf bytes.Buffer
	w := NewThrottledWriter(context.Background(), &buf, c)

	n, err := w.Write([]byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "payload", buf.String())
}

func TestThrottledWriterCanceled(t *testing.T) {
	// A burst larger than the bucket can never be admitted.
	c := NewController(Limits{ThroughputBytesPerSec: 4})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	w := NewThrottledWriter(ctx, &buf, c)

	_, err := w.Write(make([]byte, 64))
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestThrottledReader(t *testing.T) {
	c := NewController(Limits{ThroughputBytesPerSec: 1 << 20})

	r := NewThrottledReader(context.Background(), strings.NewReader("payload"), c)

	buf := make([]byte, 4)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "payl", string(buf))
}
