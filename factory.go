// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raii

import "io"

// Handle is an acquired resource: a value paired with the release action that
// relinquishes it, expressed in the host effect.
//
// A Handle is owned by whichever composition currently holds it; composition
// operators transfer ownership into the composite Handle they construct. The
// core invokes Release at most once per Handle it constructed. Callers that
// receive a Handle (or a [Winner]) own its release the same way.
type Handle[C, A any] struct {
	Value   A
	Release C
}

// Factory is a deferred, reusable description of how to acquire a [Handle].
// Calling the function builds the host computation; nothing acquires until
// the host runs it. The computation completes with a Handle[C, A], erased.
//
// A Factory is stateless: acquiring it twice performs two independent
// acquisitions. Exclusivity constraints ("this resource cannot be opened
// twice") belong to the resource itself and surface as ordinary acquisition
// failures.
type Factory[C, A any] func() C

// Acquire evaluates the description, producing the host computation that
// acquires the Handle. Acquisition failure means no Handle exists and
// nothing is owed.
func (f Factory[C, A]) Acquire() C { return f() }

// Pure builds a Factory that succeeds immediately with v and a no-op release,
// using the host's own succeed primitive.
func Pure[C, A any](host Host[C], v A) Factory[C, A] {
	return func() C {
		return host.Succeed(Handle[C, A]{Value: v, Release: host.Succeed(nil)})
	}
}

// Lift wraps a bare host computation of A into a Factory with a no-op
// release. A nil result completes the Handle with A's zero value, following
// the host-erasure convention.
func Lift[C, A any](host Host[C], c C) Factory[C, A] {
	return func() C {
		return host.Bind(c, func(v any) C {
			a, _ := v.(A)
			return host.Succeed(Handle[C, A]{Value: a, Release: host.Succeed(nil)})
		})
	}
}

// Managed builds a Factory from a deferred construction thunk whose natural
// Close becomes the release action. The thunk is embedded with
// [Host.Suspend]: it is evaluated only when the acquisition runs, and
// re-evaluated on every acquisition.
func Managed[C any, A io.Closer](host Host[C], construct func() (A, error)) Factory[C, A] {
	return Make(host, construct, func(a A) error { return a.Close() })
}

// Make builds a Factory from an acquire/release pair, for resources without
// a Close method. Like [Managed], both functions run inside [Host.Suspend]:
// acquire runs once per acquisition, release once per release of the
// resulting Handle.
func Make[C, A any](host Host[C], acquire func() (A, error), release func(A) error) Factory[C, A] {
	return func() C {
		return host.Bind(host.Suspend(func() (any, error) {
			return acquire()
		}), func(v any) C {
			a, _ := v.(A)
			return host.Succeed(Handle[C, A]{
				Value: a,
				Release: host.Suspend(func() (any, error) {
					return nil, release(a)
				}),
			})
		})
	}
}
