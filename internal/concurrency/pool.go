package concurrency

import (
	"context"
	"fmt"
)

// PanicError reports that a submitted job panicked on its worker. The
// worker itself survives.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in worker: %v", e.Value)
}

type job struct {
	run  func(ctx context.Context) error
	ctx  context.Context
	done chan error
}

// Pool is a fixed-size worker pool for blocking calls. Submitting
// goroutines wait for the result without executing the call themselves, so
// a request handler is never the goroutine stuck on a slow network call.
type Pool struct {
	jobs chan job
}

func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{jobs: make(chan job)}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for j := range p.jobs {
		j.done <- invoke(j.ctx, j.run)
	}
}

func invoke(ctx context.Context, run func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return run(ctx)
}

// Do runs fn on a pool worker and waits for it to finish, or for ctx to
// expire. On expiry fn keeps running on its worker until it observes the
// cancelled ctx; the caller just stops waiting, so it must not hand out
// state fn still touches.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	j := job{run: fn, ctx: ctx, done: make(chan error, 1)}

	select {
	case p.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
