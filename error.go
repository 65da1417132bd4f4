// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raii

// Error-aware composition.
//
// These variants of the operators in compose.go additionally manage failure
// during acquisition and failure during release. The priority rule for a
// composite release: the outer (first-acquired) release's failure always
// wins over the inner (second-acquired) release's captured failure, and both
// releases are always attempted.

// Throw builds a Factory whose acquisition fails immediately with err.
// No Handle ever exists, so no release is owed.
func Throw[C, A any](host Host[C], err error) Factory[C, A] {
	return func() C { return host.Fail(err) }
}

// Catch attempts f's acquisition; on failure it acquires the replacement
// factory obtained from rescue instead. Only acquisition-time failures are
// intercepted: a later failure of the acquired Handle's release surfaces at
// release time, uncaught.
func Catch[C, A any](host Host[C], f Factory[C, A], rescue func(error) Factory[C, A]) Factory[C, A] {
	return func() C {
		return host.Rescue(f(), func(err error) C { return rescue(err)() })
	}
}

// SafeBind is [Bind] with managed failure paths.
//
// Acquisition of f fails: the failure propagates, nothing to release.
// Acquisition of the continuation's factory fails after A is held: A's
// release runs before the error escapes; if that release itself fails, its
// failure propagates instead of the original error.
// Both acquisitions succeed: the composite Handle releases B, capturing any
// failure, then unconditionally releases A. An A-release failure propagates,
// overriding a captured B failure; otherwise a captured B failure
// propagates; otherwise the release succeeds.
func SafeBind[C, A, B any](host Host[C], f Factory[C, A], cont func(A) Factory[C, B]) Factory[C, B] {
	return func() C {
		return host.Bind(f(), func(v any) C {
			ha := v.(Handle[C, A])
			attempt := host.Rescue(cont(ha.Value)(), func(err error) C {
				// A failing release short-circuits here and overrides err.
				return host.Bind(ha.Release, func(_ any) C { return host.Fail(err) })
			})
			return host.Bind(attempt, func(w any) C {
				hb := w.(Handle[C, B])
				return host.Succeed(Handle[C, B]{
					Value:   hb.Value,
					Release: releaseBoth(host, hb.Release, ha.Release),
				})
			})
		})
	}
}

// SafeZip is [Zip] with managed failure paths. Each side's acquisition is
// individually captured so the combined computation never fails mid-flight;
// afterwards, if exactly one side failed, the surviving side's Handle is
// released before the failure propagates (a failing release overrides it),
// and if both sides failed the left failure propagates. The composite
// release attempts both releases through [Host.Both]; a left release
// failure overrides a right one.
func SafeZip[C, A, B, T any](host Host[C], fa Factory[C, A], fb Factory[C, B], combine func(A, B) T) Factory[C, T] {
	return func() C {
		return host.Bind(host.Both(capture(host, fa()), capture(host, fb())), func(v any) C {
			p := v.(Pair)
			fst, fstFailed := p.Fst.(capturedFailure)
			snd, sndFailed := p.Snd.(capturedFailure)
			switch {
			case fstFailed && sndFailed:
				return host.Fail(fst.err)
			case fstFailed:
				hb := p.Snd.(Handle[C, B])
				return host.Bind(hb.Release, func(_ any) C { return host.Fail(fst.err) })
			case sndFailed:
				ha := p.Fst.(Handle[C, A])
				return host.Bind(ha.Release, func(_ any) C { return host.Fail(snd.err) })
			}
			ha := p.Fst.(Handle[C, A])
			hb := p.Snd.(Handle[C, B])
			return host.Succeed(Handle[C, T]{
				Value:   combine(ha.Value, hb.Value),
				Release: releaseBothIndependent(host, ha.Release, hb.Release),
			})
		})
	}
}

// capturedFailure carries a failure as an ordinary value so the surrounding
// computation keeps running until every owed release has been attempted.
type capturedFailure struct{ err error }

// capture converts a failing computation into a success yielding the failure
// as a capturedFailure value.
func capture[C any](host Host[C], c C) C {
	return host.Rescue(c, func(err error) C {
		return host.Succeed(capturedFailure{err: err})
	})
}

// releaseBoth sequences a composite release: attempt inner, capturing any
// failure, then unconditionally run outer. Outer's failure short-circuits
// and overrides a captured inner failure.
func releaseBoth[C any](host Host[C], inner, outer C) C {
	return host.Bind(capture(host, inner), func(o any) C {
		return host.Bind(outer, func(_ any) C {
			if cf, ok := o.(capturedFailure); ok {
				return host.Fail(cf.err)
			}
			return host.Succeed(nil)
		})
	})
}

// releaseBothIndependent combines two releases through [Host.Both], each
// individually captured so both always run; a left failure wins over a
// right one.
func releaseBothIndependent[C any](host Host[C], left, right C) C {
	return host.Bind(host.Both(capture(host, left), capture(host, right)), func(v any) C {
		p := v.(Pair)
		if cf, ok := p.Fst.(capturedFailure); ok {
			return host.Fail(cf.err)
		}
		if cf, ok := p.Snd.(capturedFailure); ok {
			return host.Fail(cf.err)
		}
		return host.Succeed(nil)
	})
}
