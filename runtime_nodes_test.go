package flowz

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/jonboulle/clockwork"
)

func TestGenerator_TimedEmission(t *testing.T) {
	ctx := context.Background()
	fc := clockwork.NewFakeClock()

	var n int
	gen := NewGenerator("ticker", func(ctx context.Context) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-fc.After(100 * time.Millisecond):
		}
		n++
		return n, nil
	}, WithClock(fc), WithOutputCapacities(8))

	assert.NoError(t, gen.Start(ctx))
	defer gen.Stop()

	for want := 1; want <= 3; want++ {
		assert.NoError(t, fc.BlockUntilContext(ctx, 1))
		fc.Advance(100 * time.Millisecond)

		select {
		case v := <-gen.OutputChannel:
			assert.Equal(t, want, v)
		case <-time.After(2 * time.Second):
			t.Fatal("no emission after advancing the clock")
		}
	}

	// Half an interval does not fire the timer, so nothing is emitted.
	assert.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(50 * time.Millisecond)
	select {
	case v := <-gen.OutputChannel:
		t.Fatalf("unexpected emission %d before the interval elapsed", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProcessor2x1_JoinsInputs(t *testing.T) {
	ctx := context.Background()

	in1 := make(chan int, 4)
	in2 := make(chan int, 4)
	sum := NewProcessor2x1("adder", func(ctx context.Context, a, b int) (int, error) {
		return a + b, nil
	})
	sum.InputChannel1 = in1
	sum.InputChannel2 = in2

	in1 <- 2
	in2 <- 3
	in1 <- 5
	in2 <- 5
	close(in1)
	close(in2)

	assert.NoError(t, sum.Start(ctx))

	var got []int
	for v := range sum.OutputChannel {
		got = append(got, v)
	}
	assert.Equal(t, []int{5, 10}, got)

	sum.Wait()
	assert.True(t, sum.IsIdle())
}

func TestProcessor1x2_SelectiveEmission(t *testing.T) {
	ctx := context.Background()

	in := make(chan int, 1)
	split := NewProcessor1x2("router", func(ctx context.Context, v int) (ProcessResult2[int, string], error) {
		return Result2First[int, string](v), nil
	})
	split.InputChannel = in

	in <- 7
	close(in)

	assert.NoError(t, split.Start(ctx))

	v, ok := <-split.OutputChannel1
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	// The second output only ever closes; no value was routed to it.
	s, ok := <-split.OutputChannel2
	assert.False(t, ok)
	assert.Equal(t, "", s)

	split.Wait()
}

func TestSink_PauseHoldsConsumption(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var got []int
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(got)
	}

	in := make(chan int, 8)
	sink := NewSink("collector", func(ctx context.Context, v int) error {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		return nil
	}, WithPausePollInterval(5*time.Millisecond))
	sink.InputChannel = in

	assert.NoError(t, sink.Start(ctx))

	in <- 1
	in <- 2
	waitUntil(t, func() bool { return count() == 2 })

	sink.Pause()
	// Values sent while paused stay queued in the channel buffer.
	in <- 3
	in <- 4
	in <- 5
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, count())

	sink.Resume()
	waitUntil(t, func() bool { return count() == 5 })

	mu.Lock()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	mu.Unlock()

	sink.Stop()
}

func TestGenerator_Backpressure(t *testing.T) {
	ctx := context.Background()

	var calls atomic.Int64
	gen := NewGenerator("firehose", func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}, WithOutputCapacities(2))

	assert.NoError(t, gen.Start(ctx))

	// Two values fill the buffer, the third blocks in the send. With no
	// consumer the function is never invoked a fourth time.
	waitUntil(t, func() bool { return calls.Load() == 3 })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(3), calls.Load())

	v := <-gen.OutputChannel
	assert.Equal(t, 1, v)
	waitUntil(t, func() bool { return calls.Load() == 4 })

	gen.Stop()
}

func TestOutputCapacities(t *testing.T) {
	t.Run("configured capacity", func(t *testing.T) {
		gen := NewGenerator("g", func(ctx context.Context) (int, error) { return 0, ErrDone },
			WithOutputCapacities(4))
		assert.Equal(t, 4, cap(gen.OutputChannel))
	})

	t.Run("default capacity", func(t *testing.T) {
		gen := NewGenerator("g", func(ctx context.Context) (int, error) { return 0, ErrDone })
		assert.Equal(t, DefaultChannelCapacity, cap(gen.OutputChannel))
	})

	t.Run("zero means rendezvous", func(t *testing.T) {
		ctx := context.Background()

		var calls atomic.Int64
		gen := NewGenerator("g", func(ctx context.Context) (int, error) {
			return int(calls.Add(1)), nil
		}, WithOutputCapacities(0))
		assert.Equal(t, 0, cap(gen.OutputChannel))

		// With no buffer the first send blocks until a receiver arrives.
		assert.NoError(t, gen.Start(ctx))
		waitUntil(t, func() bool { return calls.Load() == 1 })
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, int64(1), calls.Load())

		assert.Equal(t, 1, <-gen.OutputChannel)
		waitUntil(t, func() bool { return calls.Load() == 2 })

		gen.Stop()
	})

	t.Run("negative clamps to the unbounded capacity", func(t *testing.T) {
		gen := NewGenerator("g", func(ctx context.Context) (int, error) { return 0, ErrDone },
			WithOutputCapacities(-1))
		assert.Equal(t, UnboundedChannelCapacity, cap(gen.OutputChannel))
	})

	t.Run("per-output capacities", func(t *testing.T) {
		gen := NewGenerator2("g", func(ctx context.Context) (ProcessResult2[int, string], error) {
			return ProcessResult2[int, string]{}, ErrDone
		}, WithOutputCapacities(1, 3))
		assert.Equal(t, 1, cap(gen.OutputChannel1))
		assert.Equal(t, 3, cap(gen.OutputChannel2))
	})
}

func TestPipeline_EndToEnd(t *testing.T) {
	ctx := context.Background()

	var n int
	gen := NewGenerator("numbers", func(ctx context.Context) (int, error) {
		if n == 4 {
			return 0, ErrDone
		}
		n++
		return n, nil
	}, WithOutputCapacities(4))

	double := NewProcessor1x1("doubler", func(ctx context.Context, v int) (int, error) {
		return v * 2, nil
	}, WithOutputCapacities(4))
	double.InputChannel = gen.OutputChannel

	var mu sync.Mutex
	var got []int
	sink := NewSink("collector", func(ctx context.Context, v int) error {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		return nil
	})
	sink.InputChannel = double.OutputChannel

	assert.NoError(t, Run(ctx, gen, double, sink))

	mu.Lock()
	assert.Equal(t, []int{2, 4, 6, 8}, got)
	mu.Unlock()

	assert.True(t, gen.IsIdle())
	assert.True(t, double.IsIdle())
	assert.True(t, sink.IsIdle())
}

func TestSink3_ConsumesTriples(t *testing.T) {
	ctx := context.Background()

	in1 := make(chan int, 1)
	in2 := make(chan string, 1)
	in3 := make(chan bool, 1)

	type triple struct {
		a int
		b string
		c bool
	}
	var mu sync.Mutex
	var got []triple
	sink := NewSink3("joiner", func(ctx context.Context, a int, b string, c bool) error {
		mu.Lock()
		got = append(got, triple{a, b, c})
		mu.Unlock()
		return nil
	})
	sink.InputChannel1 = in1
	sink.InputChannel2 = in2
	sink.InputChannel3 = in3

	in1 <- 1
	in2 <- "one"
	in3 <- true
	close(in1)
	close(in2)
	close(in3)

	assert.NoError(t, sink.Start(ctx))
	sink.Wait()

	mu.Lock()
	assert.Equal(t, []triple{{1, "one", true}}, got)
	mu.Unlock()
	assert.True(t, sink.IsIdle())
}
