// Package binary implements read_entrypoint (spec.md section 4.5): given a
// Format value and a byte buffer, it produces the representation values
// that format describes by pattern-matching on the format's value shape
// and consuming bytes accordingly.
//
// Grounded on original_source/fathom/src/core/semantics.rs's Repr table
// (which this reader must stay representation-compatible with: whatever
// shape FormatRepr says a format reduces to is the shape Read must produce
// a value of) and, for the walking-a-typed-description-and-producing-facts
// structure, on miniray's internal/reflect layout computer.
package binary

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/yeslogic/ddl/internal/core"
	"github.com/yeslogic/ddl/internal/semantics"
)

// Error is a single read failure, carrying the buffer position it
// occurred at and a diagnostic-style code (spec.md section 4.5's
// ReadFailFormat/CondFailure/BufferError/UnwrappedNone failure kinds).
type Error struct {
	Pos  uint64
	Code string
	Text string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %#x: %s", e.Code, e.Pos, e.Text)
}

const (
	CodeReadFailFormat = "read-fail-format"
	CodeCondFailure    = "cond-failure"
	CodeUnwrappedNone  = "unwrapped-none"
	CodeBufferError    = "buffer-error"
)

// Entry is one parsed value, keyed by the buffer position reading began at
// (spec.md section 4.5: "returns a map from buffer positions to parsed
// terms").
type Entry struct {
	Pos   uint64
	Value core.Value
}

// Result is the output of ReadEntrypoint: every position read during the
// pass, sorted by position, plus the leading value read at the
// entrypoint's own starting offset.
type Result struct {
	Entries []Entry
	Root    core.Value
}

// worklistJob is a deferred deref(format, pos) read, keyed by target
// position so that two links into the same offset only read it once
// (spec.md section 4.5's "deduplicate").
type worklistJob struct {
	pos    uint64
	format core.Value
}

// reader holds the mutable state of one read_entrypoint pass: the buffer,
// the current cursor, the elimination context needed to force/split format
// values, and the position-keyed worklist of pending deref jobs.
type reader struct {
	ctx  semantics.ElimContext
	buf  []byte
	pos  uint64
	seen map[uint64]bool
	jobs []worklistJob
	out  []Entry
}

// ReadEntrypoint reads format out of buf starting at offset 0, following
// every link/deref job reachable from the root read until the worklist is
// dry (spec.md section 4.5). It never partially fails: every error
// encountered, across the root read and every worklist job, is collected
// into the returned multierror rather than aborting at the first one, so a
// caller can report every dangling pointer or malformed field in one pass.
func ReadEntrypoint(ctx semantics.ElimContext, format core.Value, buf []byte) (*Result, error) {
	r := &reader{ctx: ctx, buf: buf, seen: map[uint64]bool{}}

	var errs error
	root, err := r.read(format)
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	for len(r.jobs) > 0 {
		job := r.jobs[0]
		r.jobs = r.jobs[1:]
		if r.seen[job.pos] {
			continue
		}
		r.seen[job.pos] = true

		saved := r.pos
		r.pos = job.pos
		v, err := r.read(job.format)
		if err != nil {
			errs = multierror.Append(errs, err)
		} else {
			r.out = append(r.out, Entry{Pos: job.pos, Value: v})
		}
		r.pos = saved
	}

	sort.Slice(r.out, func(i, j int) bool { return r.out[i].Pos < r.out[j].Pos })

	return &Result{Entries: r.out, Root: root}, errs
}

func (r *reader) fail(code, text string) error {
	return &Error{Pos: r.pos, Code: code, Text: text}
}

// read dispatches on format's forced value shape, consuming bytes from
// r.buf at r.pos as needed and returning the representation value
// (spec.md section 4.5's case list).
func (r *reader) read(format core.Value) (core.Value, error) {
	switch f := r.ctx.Force(format).(type) {
	case *core.FormatRecordVal:
		return r.readRecord(f.Telescope)

	case *core.FormatOverlapVal:
		return r.readOverlap(f.Telescope)

	case *core.FormatCondVal:
		return r.readCond(f)

	case *core.Stuck:
		return r.readPrim(f)

	case *core.ReportedErrorVal:
		return f, nil

	default:
		return nil, r.fail(CodeReadFailFormat, fmt.Sprintf("value of kind %T is not a format", f))
	}
}

// readRecord reads each field of a sequential record format in order,
// binding each field's representation for the remaining telescope so
// later fields may depend on earlier ones (spec.md section 4.5).
func (r *reader) readRecord(t core.Telescope) (core.Value, error) {
	var labels []core.Symbol
	var vals []core.Value
	for {
		label, formatVal, cont, ok := r.ctx.SplitTelescope(t)
		if !ok {
			break
		}
		v, err := r.read(formatVal)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
		vals = append(vals, v)
		t = cont(v)
	}
	return &core.RecordLitVal{Labels: labels, Exprs: vals}, nil
}

// readOverlap resets the cursor before each field and advances it to the
// furthest position any field's read reached (spec.md section 4.5:
// "overlap-format resets the read position before each field, taking the
// max position as the new cursor at the end").
func (r *reader) readOverlap(t core.Telescope) (core.Value, error) {
	start := r.pos
	furthest := start

	var labels []core.Symbol
	var vals []core.Value
	for {
		label, formatVal, cont, ok := r.ctx.SplitTelescope(t)
		if !ok {
			break
		}
		r.pos = start
		v, err := r.read(formatVal)
		if err != nil {
			return nil, err
		}
		if r.pos > furthest {
			furthest = r.pos
		}
		labels = append(labels, label)
		vals = append(vals, v)
		t = cont(v)
	}

	r.pos = furthest
	return &core.RecordLitVal{Labels: labels, Exprs: vals}, nil
}

// readCond reads the base format, binds its representation to Pred's
// parameter, and fails with CondFailure unless the predicate evaluates to
// true (spec.md section 4.5).
func (r *reader) readCond(f *core.FormatCondVal) (core.Value, error) {
	v, err := r.read(f.Format)
	if err != nil {
		return nil, err
	}
	pred := r.ctx.EvalClosure(f.Pred, v)
	b, ok := r.ctx.Force(pred).(*core.ConstLitVal)
	if !ok || b.Const.Kind != core.ConstBool {
		return nil, r.fail(CodeReadFailFormat, "refinement predicate did not reduce to a boolean")
	}
	if !b.Const.BoolValue() {
		return nil, r.fail(CodeCondFailure, "refinement predicate failed")
	}
	return v, nil
}
