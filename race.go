// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raii

// Racing composition.

// Winner is the result of [ChooseAny]: the winning branch's value plus the
// losing branches repackaged as residual factories.
type Winner[C, A any] struct {
	// Index identifies the winning factory in the order given to ChooseAny.
	Index int

	// Value is the winning Handle's value. The composite Handle releases
	// this winner and nothing else.
	Value A

	// Residuals hold the non-winning branches in their original order with
	// the winner removed. A residual closes over the same still-pending
	// host computation the race left behind; acquiring it is not a fresh
	// acquisition, and it is never released automatically. Ownership is the
	// caller's: acquire and release each residual, or knowingly discard it.
	// Discarding a residual whose branch does eventually acquire leaks that
	// resource on the caller's account.
	Residuals []Factory[C, A]
}

// ChooseAny races the acquisitions of the given factories through the
// host's racing primitive and completes with the first of them to complete,
// success or failure. On success the composite Handle wraps a [Winner] and
// releases only the winning branch. On failure the race fails with the
// first completion's error and the surviving branches are abandoned to the
// host (losing branches are never implicitly cancelled).
//
// The host must implement [Racer]; ChooseAny panics at construction time
// otherwise, and likewise when given no factories. Whether a residual can
// be re-acquired is the underlying host computation's own
// single-use-or-replay semantics; the hosts in this package fail a consumed
// one-shot residual with [ErrResidualConsumed].
func ChooseAny[C, A any](host Host[C], fs ...Factory[C, A]) Factory[C, Winner[C, A]] {
	racer, ok := host.(Racer[C])
	if !ok {
		panic("raii: host cannot race")
	}
	if len(fs) == 0 {
		panic("raii: ChooseAny of no factories")
	}
	return func() C {
		cs := make([]C, len(fs))
		for i, f := range fs {
			cs[i] = f()
		}
		return host.Bind(racer.Race(cs), func(v any) C {
			r := v.(Raced[C])
			hw := r.Value.(Handle[C, A])
			rest := make([]Factory[C, A], len(r.Rest))
			for i, rc := range r.Rest {
				rest[i] = func() C { return rc }
			}
			return host.Succeed(Handle[C, Winner[C, A]]{
				Value:   Winner[C, A]{Index: r.Index, Value: hw.Value, Residuals: rest},
				Release: hw.Release,
			})
		})
	}
}
