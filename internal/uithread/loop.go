// internal/uithread/loop.go
package uithread

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrClosed is returned by Do once the loop has been closed.
var ErrClosed = errors.New("uithread: loop is closed")

type onLoopKey struct{}

// task is one marshaled unit of work and the channel its result is reported on.
type task struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	name string
	done chan error
}

// Loop owns the execution context of the UI tree. Every function handed to
// Do runs on the loop's single goroutine, one at a time, so mutations never
// overlap a traversal issued from another caller.
type Loop struct {
	logger *zap.Logger
	tasks  chan task

	wg           sync.WaitGroup
	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

// Start launches the owning goroutine. Close must be called to stop it.
func Start(logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loop{
		logger:       logger.Named("uithread"),
		tasks:        make(chan task),
		shutdownChan: make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case t := <-l.tasks:
			t.done <- l.execute(t)
		case <-l.shutdownChan:
			return
		}
	}
}

func (l *Loop) execute(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Recovered panic on UI loop.", zap.String("task", t.name), zap.Any("panic", r))
			err = fmt.Errorf("uithread: task %q panicked: %v", t.name, r)
		}
	}()
	return t.fn(context.WithValue(t.ctx, onLoopKey{}, l))
}

// OnLoop reports whether ctx belongs to a task running on some Loop.
func OnLoop(ctx context.Context) bool {
	l, _ := ctx.Value(onLoopKey{}).(*Loop)
	return l != nil
}

// Do runs fn on the loop and blocks until it returns. A call made from inside
// a task on the same loop runs inline instead of deadlocking. The context is
// only consulted while waiting for the loop to accept the task; once
// accepted, Do waits for fn to finish and fn is expected to honour ctx itself.
func (l *Loop) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if owner, _ := ctx.Value(onLoopKey{}).(*Loop); owner == l {
		return fn(ctx)
	}

	t := task{ctx: ctx, fn: fn, name: name, done: make(chan error, 1)}
	select {
	case <-l.shutdownChan:
		return ErrClosed
	default:
	}

	select {
	case l.tasks <- t:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.shutdownChan:
		return ErrClosed
	}
	return <-t.done
}

// Close stops the loop after the running task, if any, completes.
// It is safe to call more than once.
func (l *Loop) Close() {
	l.shutdownOnce.Do(func() {
		close(l.shutdownChan)
	})
	l.wg.Wait()
}
