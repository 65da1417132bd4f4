// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raii

// Composition operators for factories.
//
// Minimal definition: Bind is necessary and sufficient for sequential
// composition. Map and Then are derived operations kept as optimizations to
// avoid intermediate Handle and closure allocations. Zip is the independent
// counterpart built on [Host.Both].

// Bind chains f into a value-dependent continuation producing the next
// Factory. The composite acquisition completes only after both acquisitions
// complete; the composite Handle wraps B's value and releases B first, then
// A, strict last-acquired-first-released order mirroring nested scopes.
//
// Failure anywhere short-circuits in the host channel: if the continuation's
// acquisition fails, A's release is still owed to the composite Handle that
// now never forms, so A stays held. Use [SafeBind] when mid-chain failures
// must release already-acquired handles.
func Bind[C, A, B any](host Host[C], f Factory[C, A], cont func(A) Factory[C, B]) Factory[C, B] {
	return func() C {
		return host.Bind(f(), func(v any) C {
			ha := v.(Handle[C, A])
			return host.Bind(cont(ha.Value)(), func(w any) C {
				hb := w.(Handle[C, B])
				return host.Succeed(Handle[C, B]{
					Value:   hb.Value,
					Release: host.Bind(hb.Release, func(_ any) C { return ha.Release }),
				})
			})
		})
	}
}

// Map applies a pure function to the factory's value. The Handle's release
// passes through unchanged.
//
// Allocation note: Map is equivalent to Bind(host, f, compose(Pure, g)) but
// skips the intermediate no-op Handle and its release chaining, making it
// the preferred choice when the transformation is pure.
func Map[C, A, B any](host Host[C], f Factory[C, A], g func(A) B) Factory[C, B] {
	return func() C {
		return host.Bind(f(), func(v any) C {
			ha := v.(Handle[C, A])
			return host.Succeed(Handle[C, B]{Value: g(ha.Value), Release: ha.Release})
		})
	}
}

// Then sequences two factories, discarding the first value. Release order is
// the same as [Bind]: second first, then first.
//
// Allocation note: Then avoids the continuation closure capture that
// Bind(host, f, func(_ A) Factory[C, B] { return g }) would incur.
func Then[C, A, B any](host Host[C], f Factory[C, A], g Factory[C, B]) Factory[C, B] {
	return func() C {
		return host.Bind(f(), func(v any) C {
			ha := v.(Handle[C, A])
			return host.Bind(g(), func(w any) C {
				hb := w.(Handle[C, B])
				return host.Succeed(Handle[C, B]{
					Value:   hb.Value,
					Release: host.Bind(hb.Release, func(_ any) C { return ha.Release }),
				})
			})
		})
	}
}

// Zip combines two data-independent factories with a combining function.
// Both acquisitions go through [Host.Both], which may evaluate them
// concurrently if the host supports that; the composite release combines
// both releases the same way. No ordering guarantee exists between the two
// releases. Use [SafeZip] when one side's acquisition failure must release
// the surviving side.
func Zip[C, A, B, T any](host Host[C], fa Factory[C, A], fb Factory[C, B], combine func(A, B) T) Factory[C, T] {
	return func() C {
		return host.Bind(host.Both(fa(), fb()), func(v any) C {
			p := v.(Pair)
			ha := p.Fst.(Handle[C, A])
			hb := p.Snd.(Handle[C, B])
			return host.Succeed(Handle[C, T]{
				Value:   combine(ha.Value, hb.Value),
				Release: host.Both(ha.Release, hb.Release),
			})
		})
	}
}
