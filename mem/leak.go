package mem

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// Tracker decorates an allocator with leak accounting. Every live buffer
// is kept on a doubly linked list together with the file:line that
// allocated it; Report aggregates the list per call site. The list is
// guarded by a mutex so unrelated subsystems may share one Tracker from
// several goroutines.
//
// Report is meant for process-shutdown diagnostics, not steady-state use.
type Tracker struct {
	mu    sync.Mutex
	base  Allocator
	index map[*byte]*entry
	head  *entry // most recent allocation
}

type entry struct {
	file        string
	line        int
	size        int
	older, newer *entry
	key         *byte
}

// Record is one aggregated call site in a leak report.
type Record struct {
	File  string
	Line  int
	Count int
	Bytes int
}

func (r Record) String() string {
	return fmt.Sprintf("%d leaked (%d bytes) from %s:%d", r.Count, r.Bytes, r.File, r.Line)
}

// NewTracker wraps base with leak accounting. A nil base means Default's
// underlying heap allocator.
func NewTracker(base Allocator) *Tracker {
	if base == nil {
		base = New()
	}
	return &Tracker{base: base, index: make(map[*byte]*entry)}
}

var _ Allocator = (*Tracker)(nil)

func (t *Tracker) Alloc(n int) []byte {
	b := t.base.Alloc(n)
	file, line := callSite()
	t.track(b, file, line)
	return b
}

func (t *Tracker) Realloc(b []byte, n int) []byte {
	t.untrack(b)
	nb := t.base.Realloc(b, n)
	file, line := callSite()
	t.track(nb, file, line)
	return nb
}

func (t *Tracker) Clone(b []byte) []byte {
	nb := t.base.Clone(b)
	file, line := callSite()
	t.track(nb, file, line)
	return nb
}

func (t *Tracker) Free(b []byte) {
	t.untrack(b)
	t.base.Free(b)
}

// Outstanding returns the number of live tracked buffers.
func (t *Tracker) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.index)
}

// Report walks the live list and returns one record per allocating call
// site, most recent site first.
func (t *Tracker) Report() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	order := make([]string, 0)
	agg := make(map[string]*Record)
	for e := t.head; e != nil; e = e.older {
		k := fmt.Sprintf("%s:%d", e.file, e.line)
		r, ok := agg[k]
		if !ok {
			r = &Record{File: e.file, Line: e.line}
			agg[k] = r
			order = append(order, k)
		}
		r.Count++
		r.Bytes += e.size
	}
	out := make([]Record, 0, len(agg))
	for _, k := range order {
		out = append(out, *agg[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func (t *Tracker) track(b []byte, file string, line int) {
	if len(b) == 0 {
		return
	}
	e := &entry{file: file, line: line, size: len(b), key: &b[0]}
	t.mu.Lock()
	e.older = t.head
	if t.head != nil {
		t.head.newer = e
	}
	t.head = e
	t.index[e.key] = e
	t.mu.Unlock()
}

func (t *Tracker) untrack(b []byte) {
	if len(b) == 0 {
		return
	}
	t.mu.Lock()
	e, ok := t.index[&b[0]]
	if ok {
		delete(t.index, e.key)
		if e.newer != nil {
			e.newer.older = e.older
		} else {
			t.head = e.older
		}
		if e.older != nil {
			e.older.newer = e.newer
		}
	}
	t.mu.Unlock()
}

func callSite() (string, int) {
	// skip callSite and the Tracker method
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown", 0
	}
	return file, line
}
