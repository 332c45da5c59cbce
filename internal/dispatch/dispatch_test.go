package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLoop(t *testing.T, l *Loop) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLoopFIFO(t *testing.T) {
	l := NewLoop("gui")
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		l.Post(func() error {
			got = append(got, i)
			return nil
		})
	}
	stop := runLoop(t, l)
	defer stop()

	require.NoError(t, l.Sync(testCtx(t)))
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoopInContext(t *testing.T) {
	l := NewLoop("gui")
	assert.False(t, l.InContext(), "not running yet")

	stop := runLoop(t, l)
	defer stop()

	var inside atomic.Bool
	l.Post(func() error {
		inside.Store(l.InContext())
		return nil
	})
	require.NoError(t, l.Sync(testCtx(t)))
	assert.True(t, inside.Load())
	assert.False(t, l.InContext(), "test goroutine is not the loop")
}

func TestLoopFaultBoundaryKeepsDraining(t *testing.T) {
	l := NewLoop("gui")
	stop := runLoop(t, l)
	defer stop()

	var ran atomic.Int32
	l.Post(func() error { return errors.New("boom") })
	l.Post(func() error { panic("kaboom") })
	l.Post(func() error {
		ran.Add(1)
		return nil
	})

	require.NoError(t, l.Sync(testCtx(t)))
	assert.Equal(t, int32(1), ran.Load())
}

func TestLoopStop(t *testing.T) {
	l := NewLoop("gui")
	errc := make(chan error, 1)
	go func() { errc <- l.Run(context.Background()) }()
	l.Stop()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrStopped)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestPanicErrorMessage(t *testing.T) {
	err := runTask("test", func() error { panic("bad") })
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad", pe.Value)
	assert.Contains(t, pe.Error(), "bad")
}

func TestEngineRunsTasksAndUpdates(t *testing.T) {
	e := NewEngine(240)
	var updates atomic.Int32
	var inEngine atomic.Bool
	e.OnUpdate(func(tpf time.Duration) { updates.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	e.Post(func() error {
		inEngine.Store(e.InContext())
		return nil
	})
	require.NoError(t, e.Sync(testCtx(t)))
	require.NoError(t, e.Sync(testCtx(t)))

	assert.True(t, inEngine.Load())
	assert.GreaterOrEqual(t, updates.Load(), int32(1))
	assert.GreaterOrEqual(t, e.Frames(), uint64(1))
}

func TestEngineAsyncLockBlocksFrames(t *testing.T) {
	e := NewEngine(240)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	stamp := e.AsyncLock()
	frozen := e.Frames()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frozen, e.Frames(), "no frame may run while the async lock is held")

	assert.ErrorIs(t, e.AsyncUnlock(stamp+1), ErrStaleStamp)
	require.NoError(t, e.AsyncUnlock(stamp))
	assert.ErrorIs(t, e.AsyncUnlock(stamp), ErrStaleStamp, "double unlock is rejected")

	// The second marker runs in a later frame, so the first has finished counting.
	require.NoError(t, e.Sync(testCtx(t)))
	require.NoError(t, e.Sync(testCtx(t)))
	assert.Greater(t, e.Frames(), frozen)
}

func TestPoolRunsEveryTask(t *testing.T) {
	p := NewPool(4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	var wg sync.WaitGroup
	var count atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		p.Post(func() error {
			defer wg.Done()
			count.Add(1)
			return nil
		})
	}
	wg.Wait()
	assert.Equal(t, int32(50), count.Load())
	assert.False(t, p.InContext())
}

func TestExecutorStartStop(t *testing.T) {
	x := NewExecutor(120, 2)
	x.Start(context.Background())

	guiDone := make(chan error, 1)
	go func() { guiDone <- x.GUI.Run(context.Background()) }()

	result := make(chan string, 1)
	x.RunOnBackground(func() error {
		x.RunOnEngine(func() error {
			x.RunOnGUI(func() error {
				result <- "gui"
				return nil
			})
			return nil
		})
		return nil
	})

	select {
	case got := <-result:
		assert.Equal(t, "gui", got)
	case <-time.After(5 * time.Second):
		t.Fatal("hop chain did not complete")
	}

	x.Stop()
	assert.ErrorIs(t, <-guiDone, ErrStopped)
}

func TestExecutorStopLeavesUnrunGUITasks(t *testing.T) {
	x := NewExecutor(120, 1)
	x.Start(context.Background())
	assert.Equal(t, "gui", x.GUI.Name())

	// Nobody runs the GUI loop, so these stay queued.
	x.RunOnGUI(func() error { return nil })
	x.RunOnGUI(func() error { return nil })
	assert.Equal(t, 2, x.GUI.Pending())

	x.Stop()
	assert.Equal(t, 2, x.GUI.Pending())
}

func TestImmediate(t *testing.T) {
	d := NewImmediate()
	assert.True(t, d.InContext())

	var order []string
	d.RunOnEngine(func() error {
		order = append(order, "engine")
		d.RunOnGUI(func() error {
			order = append(order, "gui")
			return nil
		})
		return nil
	})
	assert.Equal(t, []string{"engine", "gui"}, order)

	s := d.AsyncLock()
	assert.ErrorIs(t, d.AsyncUnlock(s+5), ErrStaleStamp)
	require.NoError(t, d.AsyncUnlock(s))
}
