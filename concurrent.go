// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raii

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Task is the concurrent host's computation type: deferred work against a
// context. A Task is a description; nothing runs until the host runs it.
type Task func(ctx context.Context) (any, error)

// Concurrent returns a Host over goroutine scheduling. ctx is the root
// context [Host.Run] passes to the computation.
//
// Both runs its sides concurrently in an [errgroup.Group]; the first
// failure cancels the group context the sides observe. Race starts one
// goroutine per contender and completes with the first result, success or
// failure; losing branches keep running, since cancellation belongs to the
// caller's context, not to the race. A residual consumes its branch's sole
// buffered result: the first acquisition attempt burns it, and any later
// one fails with [ErrResidualConsumed].
func Concurrent(ctx context.Context) Host[Task] {
	return concurrentHost{root: ctx}
}

type concurrentHost struct{ root context.Context }

func (concurrentHost) Succeed(v any) Task {
	return func(context.Context) (any, error) { return v, nil }
}

func (concurrentHost) Bind(c Task, f func(any) Task) Task {
	return func(ctx context.Context) (any, error) {
		v, err := c(ctx)
		if err != nil {
			return nil, err
		}
		return f(v)(ctx)
	}
}

func (concurrentHost) Both(left, right Task) Task {
	return func(ctx context.Context) (any, error) {
		g, gctx := errgroup.WithContext(ctx)
		var lv, rv any
		g.Go(func() error {
			v, err := left(gctx)
			lv = v
			return err
		})
		g.Go(func() error {
			v, err := right(gctx)
			rv = v
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return Pair{Fst: lv, Snd: rv}, nil
	}
}

func (concurrentHost) Fail(err error) Task {
	return func(context.Context) (any, error) { return nil, err }
}

func (concurrentHost) Rescue(c Task, h func(error) Task) Task {
	return func(ctx context.Context) (any, error) {
		v, err := c(ctx)
		if err != nil {
			return h(err)(ctx)
		}
		return v, nil
	}
}

func (concurrentHost) Suspend(thunk func() (any, error)) Task {
	return func(context.Context) (any, error) { return thunk() }
}

func (h concurrentHost) Run(c Task) (any, error) { return c(h.root) }

// raceOutcome carries one branch's completion.
type raceOutcome struct {
	v   any
	err error
}

// Race implements [Racer]. Every branch publishes its sole result on a
// buffered channel before bidding for first place, so the winner's result
// is already available when its index arrives and every loser's result
// stays buffered for its residual.
func (concurrentHost) Race(cs []Task) Task {
	return func(ctx context.Context) (any, error) {
		results := make([]chan raceOutcome, len(cs))
		first := make(chan int, 1)
		for i, c := range cs {
			ch := make(chan raceOutcome, 1)
			results[i] = ch
			go func() {
				v, err := c(ctx)
				ch <- raceOutcome{v: v, err: err}
				select {
				case first <- i:
				default:
				}
			}()
		}
		var i int
		select {
		case i = <-first:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		o := <-results[i]
		if o.err != nil {
			return nil, o.err
		}
		rest := make([]Task, 0, len(cs)-1)
		for j := range cs {
			if j == i {
				continue
			}
			rest = append(rest, residualTask(results[j]))
		}
		return Raced[Task]{Index: i, Value: o.v, Rest: rest}, nil
	}
}

// residualTask adapts a branch's pending result channel into a one-shot
// task. The consumption attempt burns the residual even when the context is
// cancelled before the result arrives, the same affine convention the
// cooperative host's residuals follow.
func residualTask(ch chan raceOutcome) Task {
	var used atomic.Bool
	return func(ctx context.Context) (any, error) {
		if !used.CompareAndSwap(false, true) {
			return nil, ErrResidualConsumed
		}
		select {
		case o := <-ch:
			return o.v, o.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
