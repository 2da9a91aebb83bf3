package proto

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is returned for frames that cannot be decoded.
var ErrMalformed = errors.New("proto: malformed message")

// Quantization scales: positions keep two decimals, directions and speeds three.
const (
	PosScale   = 100
	DirScale   = 1000
	SpeedScale = 1000
	TimeScale  = 100
)

// Quantize rounds v to the grid used on the wire.
func Quantize(v float64, scale float64) float64 { return math.Round(v*scale) / scale }

// Marshal frames m as a single length-delimited field numbered by its kind.
func Marshal(m Message) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil message", ErrMalformed)
	}
	body := m.appendBody(nil)
	b := make([]byte, 0, len(body)+4)
	b = protowire.AppendTag(b, protowire.Number(m.Kind()), protowire.BytesType)
	b = protowire.AppendBytes(b, body)
	return b, nil
}

// Unmarshal decodes one frame produced by Marshal.
func Unmarshal(b []byte) (Message, error) {
	num, typ, n := protowire.ConsumeTag(b)
	if n < 0 {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
	}
	if typ != protowire.BytesType || num > protowire.Number(math.MaxUint8) {
		return nil, fmt.Errorf("%w: bad envelope", ErrMalformed)
	}
	body, m := protowire.ConsumeBytes(b[n:])
	if m < 0 {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(m))
	}
	if n+m != len(b) {
		return nil, fmt.Errorf("%w: trailing bytes", ErrMalformed)
	}
	msg, err := New(Kind(num))
	if err != nil {
		return nil, err
	}
	if err := msg.decodeBody(body); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, msg.Kind(), err)
	}
	return msg, nil
}

// --- encoding helpers ---

type enc []byte

func (e enc) uint(num protowire.Number, v uint64) enc {
	if v == 0 {
		return e
	}
	e = protowire.AppendTag(e, num, protowire.VarintType)
	return protowire.AppendVarint(e, v)
}

func (e enc) sint(num protowire.Number, v int64) enc {
	return e.uint(num, protowire.EncodeZigZag(v))
}

func (e enc) fixed(num protowire.Number, v, scale float64) enc {
	return e.sint(num, int64(math.Round(v*scale)))
}

func (e enc) flag(num protowire.Number, v bool) enc {
	return e.uint(num, protowire.EncodeBool(v))
}

func (e enc) str(num protowire.Number, s string) enc {
	if s == "" {
		return e
	}
	e = protowire.AppendTag(e, num, protowire.BytesType)
	return protowire.AppendString(e, s)
}

func (e enc) msg(num protowire.Number, body []byte) enc {
	e = protowire.AppendTag(e, num, protowire.BytesType)
	return protowire.AppendBytes(e, body)
}

// --- decoding helpers ---

type field struct {
	num   protowire.Number
	typ   protowire.Type
	v     uint64
	bytes []byte
}

func (f field) uint() (uint64, error) {
	if f.typ != protowire.VarintType {
		return 0, fmt.Errorf("field %d: want varint", f.num)
	}
	return f.v, nil
}

func (f field) sint() (int64, error) {
	v, err := f.uint()
	return protowire.DecodeZigZag(v), err
}

func (f field) fixed(scale float64) (float64, error) {
	v, err := f.sint()
	return float64(v) / scale, err
}

func (f field) flag() (bool, error) {
	v, err := f.uint()
	return protowire.DecodeBool(v), err
}

func (f field) raw() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("field %d: want bytes", f.num)
	}
	return f.bytes, nil
}

// walk calls fn for every field in b. Unknown field numbers are passed
// through and should be ignored by fn.
func walk(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.v, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
