// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raii

import "errors"

// Host capability contract.
// A Host describes what the underlying effect system can do; the composition
// operators in this package depend on nothing else. The computation type C is
// opaque to the core: values crossing the boundary are type-erased and
// recovered via assertions, mirroring kont's Erased discipline.

// Host is the capability set a host effect system provides.
// C is the host's computation type. A Host value is injected explicitly at
// every construction and execution point; the core keeps no ambient state.
//
// Required laws, exercised by the tests against both provided hosts:
//
//   - Bind(c, f) short-circuits on failure of c; f is not invoked.
//   - Rescue(c, h) invokes h only when c fails.
//   - Both(l, r) yields a [Pair] of both results and fails if either side fails.
//   - Suspend(thunk) re-evaluates thunk on every run of the returned
//     computation; nothing is memoized.
type Host[C any] interface {
	// Succeed lifts a value into an immediately successful computation.
	Succeed(v any) C

	// Bind sequences a dependent step after c. Failure of c short-circuits:
	// f is never invoked and the failure propagates.
	Bind(c C, f func(v any) C) C

	// Both combines two independent computations into one yielding a [Pair].
	// The host chooses the evaluation strategy; concurrent evaluation is
	// permitted but not required.
	Both(left, right C) C

	// Fail raises err in the host's error channel.
	Fail(err error) C

	// Rescue intercepts a failure of c with handler h. A successful c passes
	// through untouched.
	Rescue(c C, h func(err error) C) C

	// Suspend embeds deferred work. The thunk runs when the computation runs,
	// once per run; a non-nil error raises in the host's error channel.
	Suspend(thunk func() (any, error)) C

	// Run executes c now and surfaces its result in Go terms.
	Run(c C) (any, error)
}

// Racer is the optional racing capability. Hosts that can race computations
// implement it in addition to [Host]; [ChooseAny] discovers it by assertion
// and panics when the host cannot race.
type Racer[C any] interface {
	// Race runs all computations and completes with the first of them to
	// complete, success or failure. A failing first completion fails the
	// race. cs is non-empty. The result value is a [Raced].
	Race(cs []C) C
}

// Pair is the erased result of [Host.Both].
type Pair struct {
	Fst any
	Snd any
}

// Raced is the erased result of [Racer.Race]: the first completion plus the
// remaining computations, still pending, exactly as the host left them.
type Raced[C any] struct {
	// Index identifies the winning computation in the order given to Race.
	Index int
	// Value is the winner's result.
	Value any
	// Rest holds the non-winning computations in their original order with
	// the winner removed. Each keeps the host's own single-use-or-replay
	// semantics, unmodified.
	Rest []C
}

// ErrResidualConsumed reports a second acquisition of a residual whose
// underlying host computation is one-shot. Both hosts provided by this
// package burn a started residual on the first acquisition attempt,
// following the affine convention of [code.hybscloud.com/kont.Suspension].
var ErrResidualConsumed = errors.New("raii: residual already consumed")
