package flowz

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
)

// startSinks starts n draining sinks against the registry; independent of
// them get IndependentControl set. Inputs stay open so the loops keep running.
func startSinks(t *testing.T, ctx context.Context, registry *RuntimeRegistry, n, independent int) []*Sink[int] {
	t.Helper()
	sinks := make([]*Sink[int], 0, n)
	for i := 0; i < n; i++ {
		opts := []RuntimeOption{WithRegistry(registry)}
		if i < independent {
			opts = append(opts, WithIndependentControl())
		}
		sink := NewSink(fmt.Sprintf("sink-%d", i), func(ctx context.Context, v int) error { return nil }, opts...)
		sink.InputChannel = make(chan int)
		assert.NoError(t, sink.Start(ctx))
		sinks = append(sinks, sink)
	}
	return sinks
}

func TestRuntimeRegistry_BulkControl(t *testing.T) {
	ctx := context.Background()

	t.Run("pause and resume skip independent runtimes", func(t *testing.T) {
		registry := NewRuntimeRegistry(nil)
		sinks := startSinks(t, ctx, registry, 5, 2)
		defer func() {
			for _, s := range sinks {
				s.Stop()
			}
		}()
		assert.Equal(t, 5, registry.Count())

		registry.PauseAll()
		paused := 0
		for _, s := range sinks {
			if s.IsPaused() {
				paused++
			}
		}
		assert.Equal(t, 3, paused)
		assert.True(t, sinks[0].IsRunning())
		assert.True(t, sinks[1].IsRunning())

		registry.ResumeAll()
		for _, s := range sinks {
			assert.True(t, s.IsRunning())
		}
	})

	t.Run("stop sweeps only controllable runtimes", func(t *testing.T) {
		registry := NewRuntimeRegistry(nil)
		sinks := startSinks(t, ctx, registry, 4, 1)

		registry.StopAll()
		assert.Equal(t, 1, registry.Count())
		assert.True(t, sinks[0].IsRunning())
		for _, s := range sinks[1:] {
			assert.True(t, s.IsIdle())
		}

		sinks[0].Stop()
		assert.Equal(t, 0, registry.Count())
	})

	t.Run("count follows the lifecycle", func(t *testing.T) {
		registry := NewRuntimeRegistry(nil)
		assert.Equal(t, 0, registry.Count())

		sinks := startSinks(t, ctx, registry, 2, 0)
		assert.Equal(t, 2, registry.Count())

		sinks[0].Stop()
		assert.Equal(t, 1, registry.Count())
		sinks[1].Stop()
		assert.Equal(t, 0, registry.Count())
	})

	t.Run("bulk operations are safe against concurrent churn", func(t *testing.T) {
		registry := NewRuntimeRegistry(nil)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					sink := NewSink(fmt.Sprintf("churn-%d", i), func(ctx context.Context, v int) error { return nil },
						WithRegistry(registry))
					sink.InputChannel = make(chan int)
					if err := sink.Start(ctx); err != nil {
						t.Error(err)
						return
					}
					sink.Stop()
				}
			}(i)
		}
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					registry.PauseAll()
					registry.ResumeAll()
				}
			}()
		}
		wg.Wait()

		registry.StopAll()
		assert.Equal(t, 0, registry.Count())
	})
}
