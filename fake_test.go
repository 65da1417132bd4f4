// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raii_test

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"code.hybscloud.com/raii"
)

// resTable is an in-memory fake resource store observing acquire/release
// ordering. Safe for concurrent use.
type resTable struct {
	mu     sync.Mutex
	events []string
	open   map[string]bool
	nextID int
}

func newResTable() *resTable {
	return &resTable{open: make(map[string]bool)}
}

var errOpenTwice = errors.New("cannot open twice")

// acquire opens id exclusively; reopening an open id fails.
func (t *resTable) acquire(id string) (*res, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.open[id] {
		return nil, errOpenTwice
	}
	t.open[id] = true
	t.events = append(t.events, "acquire "+id)
	return &res{id: id, table: t}, nil
}

// acquireFresh opens the next generated id.
func (t *resTable) acquireFresh() (*res, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := strconv.Itoa(t.nextID)
	t.nextID++
	t.open[id] = true
	t.events = append(t.events, "acquire "+id)
	return &res{id: id, table: t}, nil
}

func (t *resTable) release(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.open, id)
	t.events = append(t.events, "release "+id)
	return nil
}

// note records an arbitrary event, for observing use stages.
func (t *resTable) note(event string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *resTable) log() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.events)
}

func (t *resTable) openIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.open))
	for id := range t.open {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// res is one open fake resource. Close releases it, which makes res an
// io.Closer for Managed.
type res struct {
	id    string
	table *resTable
}

func (r *res) Close() error { return r.table.release(r.id) }

// scoped builds a managed factory over a constant-id resource.
func scoped[C any](host raii.Host[C], t *resTable, id string) raii.Factory[C, *res] {
	return raii.Managed(host, func() (*res, error) { return t.acquire(id) })
}

// fresh builds a managed factory generating a new id per acquisition.
func fresh[C any](host raii.Host[C], t *resTable) raii.Factory[C, *res] {
	return raii.Managed(host, func() (*res, error) { return t.acquireFresh() })
}

// failingRelease acquires id normally, records the release attempt, then
// fails the release with relErr.
func failingRelease[C any](host raii.Host[C], t *resTable, id string, relErr error) raii.Factory[C, *res] {
	return raii.Make(host,
		func() (*res, error) { return t.acquire(id) },
		func(r *res) error {
			_ = r.Close()
			return relErr
		})
}

// wantEvents fails the test unless the table's event log equals want.
func wantEvents(t *testing.T, table *resTable, want ...string) {
	t.Helper()
	if got := table.log(); !slices.Equal(got, want) {
		t.Fatalf("got events %v, want %v", got, want)
	}
}

// wantEventSet fails the test unless the table's event log is a permutation
// of want in which every release follows its acquire. For compositions with
// no release-order guarantee.
func wantEventSet(t *testing.T, table *resTable, want ...string) {
	t.Helper()
	got := table.log()
	gotSorted, wantSorted := slices.Clone(got), slices.Clone(want)
	slices.Sort(gotSorted)
	slices.Sort(wantSorted)
	if !slices.Equal(gotSorted, wantSorted) {
		t.Fatalf("got events %v, want a permutation of %v", got, want)
	}
	for i, e := range got {
		id, ok := strings.CutPrefix(e, "release ")
		if !ok {
			continue
		}
		if !slices.Contains(got[:i], "acquire "+id) {
			t.Fatalf("release before acquire for %q in %v", id, got)
		}
	}
}

// wantOpen fails the test unless exactly the given ids remain open.
func wantOpen(t *testing.T, table *resTable, ids ...string) {
	t.Helper()
	want := slices.Clone(ids)
	slices.Sort(want)
	if got := table.openIDs(); !slices.Equal(got, want) {
		t.Fatalf("got open ids %v, want %v", got, want)
	}
}
