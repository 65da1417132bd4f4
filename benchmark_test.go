// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raii_test

import (
	"context"
	"testing"

	"code.hybscloud.com/raii"
)

// BenchmarkPureRun measures the pure acquire/release round trip (baseline).
func BenchmarkPureRun(b *testing.B) {
	host := raii.Cooperative()
	f := raii.Pure(host, 42)
	for b.Loop() {
		_, _ = raii.Run(host, f)
	}
}

// BenchmarkBindChainCooperative measures Bind chain composition on the
// cooperative host.
func BenchmarkBindChainCooperative(b *testing.B) {
	host := raii.Cooperative()
	inc := func(x int) raii.Factory[raii.Program, int] {
		return raii.Pure(host, x+1)
	}

	// Chain of 10 binds
	chain := raii.Pure(host, 0)
	for range 10 {
		chain = raii.Bind(host, chain, inc)
	}

	for b.Loop() {
		_, _ = raii.Run(host, chain)
	}
}

// BenchmarkBindChainConcurrent measures Bind chain composition on the
// concurrent host.
func BenchmarkBindChainConcurrent(b *testing.B) {
	host := raii.Concurrent(context.Background())
	inc := func(x int) raii.Factory[raii.Task, int] {
		return raii.Pure(host, x+1)
	}

	// Chain of 10 binds
	chain := raii.Pure(host, 0)
	for range 10 {
		chain = raii.Bind(host, chain, inc)
	}

	for b.Loop() {
		_, _ = raii.Run(host, chain)
	}
}

// BenchmarkMakeRun measures an acquire/release pair embedded via Suspend.
func BenchmarkMakeRun(b *testing.B) {
	host := raii.Cooperative()
	f := raii.Make(host, func() (int, error) { return 42, nil }, func(int) error { return nil })
	for b.Loop() {
		_, _ = raii.Run(host, f)
	}
}

// BenchmarkSafeBind measures the error-aware sequential composite, whose
// release path captures and re-raises failures.
func BenchmarkSafeBind(b *testing.B) {
	host := raii.Cooperative()
	mk := func() raii.Factory[raii.Program, int] {
		return raii.Make(host, func() (int, error) { return 42, nil }, func(int) error { return nil })
	}
	f := raii.SafeBind(host, mk(), func(int) raii.Factory[raii.Program, int] {
		return mk()
	})
	for b.Loop() {
		_, _ = raii.Run(host, f)
	}
}

// BenchmarkUsing measures the scoped-use flattener.
func BenchmarkUsing(b *testing.B) {
	host := raii.Cooperative()
	f := raii.Make(host, func() (int, error) { return 42, nil }, func(int) error { return nil })
	c := raii.Using(host, f, func(x int) raii.Program {
		return host.Succeed(x * 2)
	})
	for b.Loop() {
		_, _ = host.Run(c)
	}
}

// BenchmarkChooseAnyCooperative measures the stepping race driver over two
// immediate contenders.
func BenchmarkChooseAnyCooperative(b *testing.B) {
	host := raii.Cooperative()
	f := raii.ChooseAny(host, raii.Pure(host, 1), raii.Pure(host, 2))
	for b.Loop() {
		_, _ = raii.Run(host, f)
	}
}
