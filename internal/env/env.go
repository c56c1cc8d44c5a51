// Package env implements the environment stack described in spec.md section
// 4.2: three representations (unique, slice-view, shared-persistent) indexed
// by de Bruijn indices (in terms) and levels (in values), all convertible
// through the current environment length.
//
// Indices count from the innermost binder outward and stay stable under
// weakening; levels count from the outermost binder inward and stay stable
// under substitution. Keeping them as distinct types (rather than both being
// plain ints) is the discipline spec.md section 9 recommends.
package env

import "fmt"

// Index is a de Bruijn index into a term's local scope.
type Index uint32

// Level is a de Bruijn level into a value's local scope.
type Level uint32

// EnvLen is the length of an environment at some point during
// elaboration/evaluation; it is what lets Index and Level be converted into
// one another.
type EnvLen uint32

// maxEnvLen bounds environments at 2^16 entries (spec.md section 4.2); going
// past it is an implementation bug, not a user error.
const maxEnvLen = 1 << 16

// IndexToLevel converts an index, valid under an environment of this length,
// into the equivalent level.
func (l EnvLen) IndexToLevel(i Index) (Level, bool) {
	if uint32(i) >= uint32(l) {
		return 0, false
	}
	return Level(uint32(l) - uint32(i) - 1), true
}

// LevelToIndex converts a level, valid under an environment of this length,
// into the equivalent index.
func (l EnvLen) LevelToIndex(lv Level) (Index, bool) {
	if uint32(lv) >= uint32(l) {
		return 0, false
	}
	return Index(uint32(l) - uint32(lv) - 1), true
}

// Next returns the level that a newly pushed entry would occupy.
func (l EnvLen) Next() Level {
	return Level(l)
}

// ErrEnvOverflow is raised (as a panic, per spec.md section 4.7: semantic
// bugs are implementation bugs) when an environment would grow past
// maxEnvLen.
type ErrEnvOverflow struct{}

func (ErrEnvOverflow) Error() string {
	return fmt.Sprintf("env: exceeded maximum environment length of %d", maxEnvLen)
}

func checkLen(n int) {
	if n > maxEnvLen {
		panic(ErrEnvOverflow{})
	}
}
