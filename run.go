// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raii

// Flattening operations for callers that are not composing further.
// Run and RunWith leave the host world; Using stays in it. Together with
// [Factory.Acquire] these are the only points where acquisition and release
// actually execute.

// Run acquires f, releases immediately, and surfaces just the value.
// Release always executes once acquisition succeeded; a release failure
// surfaces as Run's error and the value is forfeited. The resource is
// already relinquished when Run returns, so the value must not be used as
// if it were still open.
func Run[C, A any](host Host[C], f Factory[C, A]) (A, error) {
	v, err := host.Run(host.Bind(f(), func(av any) C {
		h := av.(Handle[C, A])
		return host.Bind(h.Release, func(_ any) C { return host.Succeed(h.Value) })
	}))
	if err != nil {
		var zero A
		return zero, err
	}
	a, _ := v.(A)
	return a, nil
}

// Using acquires f, applies use to the value producing a further host
// computation, then releases before the final result surfaces. A failure in
// the use stage still releases; a release failure overrides a pending use
// failure, the same priority the composite releases follow.
func Using[C, A any](host Host[C], f Factory[C, A], use func(A) C) C {
	return host.Bind(f(), func(av any) C {
		h := av.(Handle[C, A])
		return host.Bind(capture(host, use(h.Value)), func(o any) C {
			return host.Bind(h.Release, func(_ any) C {
				if cf, ok := o.(capturedFailure); ok {
					return host.Fail(cf.err)
				}
				return host.Succeed(o)
			})
		})
	})
}

// RunWith is [Using] for callers leaving the host world: use is a plain Go
// continuation embedded via [Host.Suspend], and the final result surfaces
// as (B, error) through [Host.Run]. Release semantics are those of [Using].
func RunWith[C, A, B any](host Host[C], f Factory[C, A], use func(A) (B, error)) (B, error) {
	v, err := host.Run(Using(host, f, func(a A) C {
		return host.Suspend(func() (any, error) {
			return use(a)
		})
	}))
	if err != nil {
		var zero B
		return zero, err
	}
	b, _ := v.(B)
	return b, nil
}
