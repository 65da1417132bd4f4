// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package raii provides composable scoped resource lifetimes over an
// arbitrary host effect system.
//
// A [Handle] is an acquired resource: a value paired with a release action
// expressed in the host effect. A [Factory] is a deferred, reusable
// description of how to acquire a Handle. Composition operators build
// larger factories out of smaller ones while preserving one hard guarantee:
// every acquired resource is released exactly once, in a well-defined
// order, even across failures, partial successes, and racing.
//
// # Host Polymorphism
//
// The package implements no scheduler, no I/O, and no threading of its own.
// All of that belongs to a host effect system, described by the [Host]
// capability interface over an opaque computation type C: sequencing,
// independent combination, a succeed primitive, an error channel, deferred
// embedding, and execution. Racing is the optional [Racer] capability,
// discovered by assertion. A Host value is injected explicitly wherever a
// factory is constructed or executed; nothing is ambient.
//
// Values crossing the capability boundary are type-erased and recovered by
// assertion at the boundary, the same discipline kont applies to its
// Resumed values:
//
//   - [Pair]: result of [Host.Both]
//   - [Raced]: result of [Racer.Race]
//
// Two hosts ship with the package:
//
//   - [Cooperative]: single-threaded computations on
//     [code.hybscloud.com/kont]; [Program] is the computation type, racing
//     runs on the kont stepping boundary
//   - [Concurrent]: goroutine-backed [Task] computations; independent
//     combination via errgroup, racing via buffered result channels
//
// # Construction
//
//   - [Pure]: immediate value, no-op release
//   - [Lift]: bare host computation, no-op release
//   - [Managed]: deferred construction of an [io.Closer]; Close becomes the
//     release action
//   - [Make]: deferred acquire/release pair for resources without a Close
//     method
//
// Construction thunks run inside [Host.Suspend]: deferred to acquisition
// time and re-evaluated on every acquisition, never memoized.
//
// # Composition
//
//   - [Bind]: sequential, value-dependent chaining; the composite releases
//     last-acquired-first, mirroring nested scopes
//   - [Map], [Then]: derived sequential forms
//   - [Zip]: independent combination of two factories; acquisition and
//     release both go through [Host.Both], with no release-order guarantee
//     between the sides
//
// # Error-Aware Composition
//
//   - [Throw]: a factory whose acquisition fails immediately
//   - [Catch]: intercept acquisition-time failures with a replacement
//     factory
//   - [SafeBind]: [Bind] that releases already-held handles on mid-chain
//     failure
//   - [SafeZip]: [Zip] that releases the surviving side when the other
//     side's acquisition fails
//
// The release priority rule: a composite release attempts the inner
// (last-acquired) release first, capturing its failure, then always
// attempts the outer release; an outer release failure overrides the
// captured inner one. Plain [Bind] and [Zip] instead let failures
// short-circuit in the host channel: already-held handles stay held, still
// recorded as open by whatever owns them.
//
// # Racing
//
//   - [ChooseAny]: race factory acquisitions through [Racer.Race]
//   - [Winner]: winning value plus residual factories
//   - [ErrResidualConsumed]: second acquisition of a one-shot residual
//
// The composite handle releases only the winner. Residuals close over the
// still-pending host computations and transfer to the caller, who must
// acquire-and-release or knowingly discard them; an abandoned residual that
// eventually acquires is the caller's leak. Losing branches are not
// implicitly cancelled. Re-acquiring a residual follows the underlying host
// computation's own single-use-or-replay semantics, unmodified: both
// provided hosts burn a started branch on the first attempt and fail later
// attempts with [ErrResidualConsumed], while a branch the cooperative race
// never started replays like any other description.
//
// # Execution
//
//   - [Factory.Acquire]: the host computation that acquires the Handle
//   - [Run]: acquire, release immediately, surface the value
//   - [RunWith]: acquire, apply a plain Go continuation, release, surface
//   - [Using]: acquire, apply a host-effect continuation, release; stays in
//     the host world
//
// On every path through a composed factory, a resource's release runs
// before the final value or error escapes. Release failures surface as
// ordinary errors; in Run the value is forfeited when its release fails.
//
// # Example
//
//	host := raii.Cooperative()
//
//	pool := raii.Make(host,
//		func() (*Pool, error) { return OpenPool(addr) },
//		func(p *Pool) error { return p.Shutdown() },
//	)
//	session := raii.Bind(host, pool, func(p *Pool) raii.Factory[raii.Program, *Session] {
//		return raii.Managed(host, p.Connect)
//	})
//
//	greeting, err := raii.RunWith(host, session, func(s *Session) (string, error) {
//		return s.Hello()
//	})
//	// The session closed before RunWith returned, then the pool shut down.
package raii
