package binary

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/yeslogic/ddl/internal/core"
)

// readPrim handles every format shape that reduces to a stuck prim
// application: fixed-width scalar readers, array8/16/32/64, link/deref,
// stream_pos, succeed, fail, and unwrap (spec.md section 4.5).
func (r *reader) readPrim(f *core.Stuck) (core.Value, error) {
	ph, ok := f.Head.(core.PrimHead)
	if !ok {
		return nil, r.fail(CodeReadFailFormat, fmt.Sprintf("stuck on non-prim head %T", f.Head))
	}

	if base, ok := ph.Prim.ReprType(); ok && len(f.Spine) == 0 {
		return r.readScalar(ph.Prim, base)
	}

	switch ph.Prim {
	case core.PrimFormatArray8, core.PrimFormatArray16, core.PrimFormatArray32, core.PrimFormatArray64:
		if len(f.Spine) != 2 {
			break
		}
		return r.readArray(spineArg(f.Spine, 0), spineArg(f.Spine, 1))

	case core.PrimFormatLink:
		if len(f.Spine) != 2 {
			break
		}
		return r.readLink(spineArg(f.Spine, 0), spineArg(f.Spine, 1))

	case core.PrimFormatDeref:
		if len(f.Spine) != 2 {
			break
		}
		return r.readDeref(spineArg(f.Spine, 0), spineArg(f.Spine, 1))

	case core.PrimFormatStreamPos:
		if len(f.Spine) != 0 {
			break
		}
		return &core.ConstLitVal{Const: core.Pos(r.pos)}, nil

	case core.PrimFormatSucceed:
		if len(f.Spine) != 2 {
			break
		}
		return spineArg(f.Spine, 1), nil

	case core.PrimFormatFail:
		if len(f.Spine) != 0 {
			break
		}
		return nil, r.fail(CodeReadFailFormat, "fail")

	case core.PrimFormatUnwrap:
		if len(f.Spine) != 2 {
			break
		}
		return r.readUnwrap(spineArg(f.Spine, 1))
	}

	return nil, r.fail(CodeReadFailFormat, fmt.Sprintf("unsupported or under-applied format prim %q", ph.Prim.Name()))
}

func spineArg(spine []core.Elim, i int) core.Value {
	fe, ok := spine[i].(core.FunElim)
	if !ok {
		return nil
	}
	return fe.Arg
}

// readScalar reads a fixed-width numeric prim's declared number of bytes,
// in its declared endianness, at the current cursor (spec.md section
// 4.5's "primitive scalars").
func (r *reader) readScalar(format, base core.PrimName) (core.Value, error) {
	width, kind, order := scalarShape(format)
	if len(r.buf)-int(r.pos) < width {
		return nil, r.fail(CodeBufferError, "unexpected end of buffer")
	}
	raw := r.buf[r.pos : r.pos+width]
	r.pos += uint64(width)

	switch base {
	case core.PrimU8Type, core.PrimU16Type, core.PrimU32Type, core.PrimU64Type:
		return &core.ConstLitVal{Const: core.U(kind, readUint(raw, order), core.StyleDecimal)}, nil
	case core.PrimS8Type, core.PrimS16Type, core.PrimS32Type, core.PrimS64Type:
		return &core.ConstLitVal{Const: core.S(kind, signExtend(readUint(raw, order), width))}, nil
	case core.PrimF32Type, core.PrimF64Type:
		bits := readUint(raw, order)
		if width == 4 {
			return &core.ConstLitVal{Const: core.F(kind, float64(math.Float32frombits(uint32(bits))))}, nil
		}
		return &core.ConstLitVal{Const: core.F(kind, math.Float64frombits(bits))}, nil
	}
	return nil, r.fail(CodeReadFailFormat, "unrecognized scalar base type")
}

type byteOrder uint8

const (
	orderBig byteOrder = iota
	orderLittle
)

// scalarShape maps a fixed-width format prim to its byte width, the
// ConstKind its value is stored as, and its declared endianness (spec.md
// section 4.5's Repr table; u8/s8 have no endianness suffix since a single
// byte has none).
func scalarShape(format core.PrimName) (width int, kind core.ConstKind, order byteOrder) {
	switch format {
	case core.PrimFormatU8:
		return 1, core.ConstU8, orderBig
	case core.PrimFormatU16Be:
		return 2, core.ConstU16, orderBig
	case core.PrimFormatU16Le:
		return 2, core.ConstU16, orderLittle
	case core.PrimFormatU32Be:
		return 4, core.ConstU32, orderBig
	case core.PrimFormatU32Le:
		return 4, core.ConstU32, orderLittle
	case core.PrimFormatU64Be:
		return 8, core.ConstU64, orderBig
	case core.PrimFormatU64Le:
		return 8, core.ConstU64, orderLittle
	case core.PrimFormatS8:
		return 1, core.ConstS8, orderBig
	case core.PrimFormatS16Be:
		return 2, core.ConstS16, orderBig
	case core.PrimFormatS16Le:
		return 2, core.ConstS16, orderLittle
	case core.PrimFormatS32Be:
		return 4, core.ConstS32, orderBig
	case core.PrimFormatS32Le:
		return 4, core.ConstS32, orderLittle
	case core.PrimFormatS64Be:
		return 8, core.ConstS64, orderBig
	case core.PrimFormatS64Le:
		return 8, core.ConstS64, orderLittle
	case core.PrimFormatF32Be:
		return 4, core.ConstF32, orderBig
	case core.PrimFormatF32Le:
		return 4, core.ConstF32, orderLittle
	case core.PrimFormatF64Be:
		return 8, core.ConstF64, orderBig
	case core.PrimFormatF64Le:
		return 8, core.ConstF64, orderLittle
	}
	return 0, core.ConstBool, orderBig
}

func readUint(raw []byte, order byteOrder) uint64 {
	var buf [8]byte
	copy(buf[8-len(raw):], raw)
	if order == orderLittle {
		switch len(raw) {
		case 1:
			return uint64(raw[0])
		case 2:
			return uint64(binary.LittleEndian.Uint16(raw))
		case 4:
			return uint64(binary.LittleEndian.Uint32(raw))
		case 8:
			return binary.LittleEndian.Uint64(raw)
		}
	}
	switch len(raw) {
	case 1:
		return uint64(raw[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(raw))
	case 4:
		return uint64(binary.BigEndian.Uint32(raw))
	case 8:
		return binary.BigEndian.Uint64(raw)
	}
	return 0
}

func signExtend(bits uint64, width int) int64 {
	shift := uint(64 - width*8)
	return int64(bits<<shift) >> shift
}

// readArray reads lenVal (a Const integer already forced to concrete, per
// spec.md's invariant that an array format's length has been elaborated
// against a closed numeric expression) copies of elem in sequence (spec.md
// section 4.5).
func (r *reader) readArray(lenVal, elem core.Value) (core.Value, error) {
	forced := r.ctx.Force(lenVal)
	lit, ok := forced.(*core.ConstLitVal)
	if !ok {
		return nil, r.fail(CodeReadFailFormat, "array length did not reduce to a constant")
	}
	n := lit.Const.Bits

	vals := make([]core.Value, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := r.read(elem)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return &core.ArrayLitVal{Exprs: vals}, nil
}

// readLink produces a deferred reference: the representation of
// link(pos, F) is Ref(F), a Pos constant carrying only the target offset;
// the format to read there is queued as a worklist job, and no bytes are
// consumed here (spec.md section 4.5).
func (r *reader) readLink(posVal, format core.Value) (core.Value, error) {
	forced := r.ctx.Force(posVal)
	lit, ok := forced.(*core.ConstLitVal)
	if !ok {
		return nil, r.fail(CodeReadFailFormat, "link position did not reduce to a constant")
	}
	r.jobs = append(r.jobs, worklistJob{pos: lit.Const.Bits, format: format})
	return &core.ConstLitVal{Const: core.Pos(lit.Const.Bits)}, nil
}

// readDeref seeks to the position carried by ref, reads format there, and
// restores the cursor (spec.md section 4.5). The worklist in
// ReadEntrypoint already schedules and deduplicates this same (pos,
// format) pair reached via a plain link; an inline deref additionally
// performs the read synchronously so its representation value is
// available to the enclosing record immediately.
func (r *reader) readDeref(format, ref core.Value) (core.Value, error) {
	forced := r.ctx.Force(ref)
	lit, ok := forced.(*core.ConstLitVal)
	if !ok {
		return nil, r.fail(CodeReadFailFormat, "deref target did not reduce to a position")
	}
	target := lit.Const.Bits

	saved := r.pos
	r.pos = target
	v, err := r.read(format)
	r.pos = saved
	if err != nil {
		return nil, err
	}
	if !r.seen[target] {
		r.seen[target] = true
		r.out = append(r.out, Entry{Pos: target, Value: v})
	}
	return v, nil
}

// readUnwrap reads the None/Some-shaped representation produced by an
// already-evaluated Option(T) value, consuming no bytes itself (spec.md
// section 4.5: "unwrap(T, o) succeeds iff o is some v"). Option(T) values
// in this implementation are represented the same way a two-field overlap
// format would represent a tagged union: a record literal with a boolean
// presence field and a payload field, since the core language has no
// dedicated sum-type constructor for Option — see DESIGN.md's discussion
// of PrimOptionType.
func (r *reader) readUnwrap(o core.Value) (core.Value, error) {
	forced := r.ctx.Force(o)
	rec, ok := forced.(*core.RecordLitVal)
	if !ok || len(rec.Exprs) != 2 {
		return nil, r.fail(CodeReadFailFormat, "option value is not in the expected present/value shape")
	}
	present, ok := r.ctx.Force(rec.Exprs[0]).(*core.ConstLitVal)
	if !ok || present.Const.Kind != core.ConstBool {
		return nil, r.fail(CodeReadFailFormat, "option presence field is not a Bool")
	}
	if !present.Const.BoolValue() {
		return nil, r.fail(CodeUnwrappedNone, "unwrap on none")
	}
	return rec.Exprs[1], nil
}
