// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raii

import (
	"sync/atomic"

	"code.hybscloud.com/kont"
)

// Program is the cooperative host's computation type: an effectful kont
// computation with an erased result.
type Program = kont.Eff[any]

// Cooperative returns a Host over single-threaded [code.hybscloud.com/kont]
// computations. The error capability maps onto kont's Error effect; Run
// interprets it with [kont.RunError]. Both evaluates left then right, a
// deterministic rendition of independent combination that a single-threaded
// host is free to choose.
//
// The host implements [Racer] via kont's stepping boundary. Racing
// interprets only error-effect operations; a contender performing any other
// effect panics, kont's unhandled-effect convention. Contenders the race
// never started remain plain descriptions and replay on re-acquisition;
// contenders left mid-flight are one-shot and fail a second acquisition
// with [ErrResidualConsumed].
func Cooperative() Host[Program] {
	return cooperativeHost{}
}

type cooperativeHost struct{}

func (cooperativeHost) Succeed(v any) Program { return kont.Pure(v) }

func (cooperativeHost) Bind(c Program, f func(any) Program) Program {
	return kont.Bind(c, f)
}

func (cooperativeHost) Both(left, right Program) Program {
	return kont.Bind(left, func(lv any) Program {
		return kont.Bind(right, func(rv any) Program {
			return kont.Pure[any](Pair{Fst: lv, Snd: rv})
		})
	})
}

func (cooperativeHost) Fail(err error) Program {
	return kont.ThrowError[error, any](err)
}

func (cooperativeHost) Rescue(c Program, h func(error) Program) Program {
	return kont.CatchError[error, any](c, h)
}

func (cooperativeHost) Suspend(thunk func() (any, error)) Program {
	return kont.Suspend[kont.Resumed, any](func(k func(any) kont.Resumed) kont.Resumed {
		v, err := thunk()
		if err != nil {
			return kont.ThrowError[error, any](err)(k)
		}
		return k(v)
	})
}

func (cooperativeHost) Run(c Program) (any, error) {
	e := kont.RunError[error, any](c)
	if err, ok := e.GetLeft(); ok {
		return nil, err
	}
	v, _ := e.GetRight()
	return v, nil
}

// raceBranch tracks one contender between turns of the race driver.
type raceBranch struct {
	c       Program
	susp    *kont.Suspension[any]
	started bool
}

// Race implements [Racer] with a round-robin driver over [kont.Step]: one
// step or one operation dispatch per contender per turn, so a contender
// that suspends on an error-effect operation yields the turn to the next.
// The first contender observed to complete wins; completing with an error
// fails the whole race with that error and abandons the other branches.
func (cooperativeHost) Race(cs []Program) Program {
	return kont.Suspend[kont.Resumed, any](func(k func(any) kont.Resumed) kont.Resumed {
		branches := make([]*raceBranch, len(cs))
		for i, c := range cs {
			branches[i] = &raceBranch{c: c}
		}
		for {
			for i, b := range branches {
				var v any
				var next *kont.Suspension[any]
				if !b.started {
					b.started = true
					v, next = kont.Step(b.c)
				} else {
					rv, err, ok := dispatchErrorOp(b.susp)
					if !ok {
						panic("raii: unhandled effect operation in race")
					}
					if err != nil {
						b.susp.Discard()
						for _, ob := range branches {
							if ob != b && ob.susp != nil {
								ob.susp.Discard()
							}
						}
						return kont.ThrowError[error, any](err)(k)
					}
					v, next = b.susp.Resume(rv)
				}
				if next == nil {
					return k(Raced[Program]{
						Index: i,
						Value: v,
						Rest:  residualPrograms(branches, i),
					})
				}
				b.susp = next
			}
		}
	})
}

// dispatchErrorOp interprets a single error-effect operation with a fresh
// error context, via the same structural assertion kont's error handler
// uses. Reports ok=false for operations outside the error family.
func dispatchErrorOp(s *kont.Suspension[any]) (kont.Resumed, error, bool) {
	eop, ok := s.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	})
	if !ok {
		return nil, nil, false
	}
	var ctx kont.ErrorContext[error]
	rv, _ := eop.DispatchError(&ctx)
	if ctx.HasErr {
		return nil, ctx.Err, true
	}
	return rv, nil, true
}

// residualPrograms repackages the non-winning branches. A branch the race
// never started passes through as the original description; a mid-flight
// branch wraps its one-shot suspension.
func residualPrograms(branches []*raceBranch, winner int) []Program {
	rest := make([]Program, 0, len(branches)-1)
	for i, b := range branches {
		if i == winner {
			continue
		}
		if !b.started {
			rest = append(rest, b.c)
			continue
		}
		rest = append(rest, residualProgram(b.susp))
	}
	return rest
}

// residualProgram adapts a mid-flight suspension into a program. The first
// run drives the suspension to completion; any later run fails with
// [ErrResidualConsumed]. The attempt burns the residual, the same affine
// convention as [kont.Suspension.TryResume].
func residualProgram(s *kont.Suspension[any]) Program {
	var used atomic.Bool
	return kont.Suspend[kont.Resumed, any](func(k func(any) kont.Resumed) kont.Resumed {
		if !used.CompareAndSwap(false, true) {
			return kont.ThrowError[error, any](ErrResidualConsumed)(k)
		}
		v, err := driveSuspension(s)
		if err != nil {
			return kont.ThrowError[error, any](err)(k)
		}
		return k(v)
	})
}

// driveSuspension advances a suspension to completion, interpreting error
// operations along the way.
func driveSuspension(s *kont.Suspension[any]) (any, error) {
	for {
		rv, err, ok := dispatchErrorOp(s)
		if !ok {
			panic("raii: unhandled effect operation in race")
		}
		if err != nil {
			s.Discard()
			return nil, err
		}
		var v any
		v, s = s.Resume(rv)
		if s == nil {
			return v, nil
		}
	}
}
