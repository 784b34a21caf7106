package bitmapindex

import (
	"encoding/binary"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/tenzir/vast/bitstream"
	"github.com/tenzir/vast/value"
	"github.com/tenzir/vast/vasterr"
)

// discriminant identifies a concrete Index implementation on the wire: the
// one-byte tag written right after the checkpoint size, immediately
// followed by the defined mask (see base) and then the type-specific
// body.
type discriminant byte

const (
	discBool       discriminant = 0
	discArithmetic discriminant = 1
	discString     discriminant = 2
	discAddress    discriminant = 3
	discPort       discriminant = 4
)

func writeU64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func writeString(w io.Writer, s string) error {
	if err := writeU64(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readU64(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Write serializes idx in its on-disk layout: checkpoint size, type
// discriminant, then a type-specific body ending in one or more
// bitstreams.
func Write(w io.Writer, idx Index) error {
	switch t := idx.(type) {
	case *BoolIndex:
		return writeIndexHeader(w, discBool, &t.base, func() error {
			return writeDiscreteBody(w, &t.discrete, func(v value.Value) error {
				return writeBool(w, v.BoolVal())
			})
		})
	case *StringIndex:
		return writeIndexHeader(w, discString, &t.base, func() error {
			return writeDiscreteBody(w, &t.discrete, func(v value.Value) error {
				return writeString(w, v.StringVal())
			})
		})
	case *PortIndex:
		return writeIndexHeader(w, discPort, &t.base, func() error {
			return writeDiscreteBody(w, &t.discrete, func(v value.Value) error {
				p := v.PortVal()
				if err := binary.Write(w, binary.LittleEndian, p.Number); err != nil {
					return err
				}
				return binary.Write(w, binary.LittleEndian, uint8(p.Proto))
			})
		})
	case *ArithmeticIndex:
		return writeIndexHeader(w, discArithmetic, &t.base, func() error {
			if _, err := w.Write([]byte{byte(t.kind)}); err != nil {
				return err
			}
			for _, p := range t.planes {
				if err := bitstream.Write(w, p); err != nil {
					return err
				}
			}
			return nil
		})
	case *AddressIndex:
		return writeIndexHeader(w, discAddress, &t.base, func() error {
			for _, p := range t.planes {
				if err := bitstream.Write(w, p); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return vasterr.New(vasterr.KindInternalInvariant,
			vasterr.WithOp("bitmapindex.Write"),
			vasterr.WithMsg(fmt.Sprintf("unknown index type %T", idx)))
	}
}

func writeIndexHeader(w io.Writer, d discriminant, b *base, body func() error) error {
	if err := writeU64(w, b.lastCheckpoint); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(d)}); err != nil {
		return err
	}
	if err := bitstream.Write(w, b.defined); err != nil {
		return err
	}
	return body()
}

func writeBool(w io.Writer, b bool) error {
	v := byte(0)
	if b {
		v = 1
	}
	_, err := w.Write([]byte{v})
	return err
}

func writeDiscreteBody(w io.Writer, d *discrete, writeKey func(value.Value) error) error {
	if err := writeU64(w, d.size); err != nil {
		return err
	}
	if err := writeU64(w, uint64(len(d.order))); err != nil {
		return err
	}
	for _, k := range d.order {
		if err := writeKey(d.decode[k]); err != nil {
			return err
		}
		if err := bitstream.Write(w, d.dict[k]); err != nil {
			return err
		}
	}
	return nil
}

// Read deserializes an Index previously written by Write.
func Read(r io.Reader) (Index, error) {
	return ReadWithLogger(r, nil)
}

// ReadWithLogger deserializes an Index, wiring log into it for subsequent
// degraded-failure reporting.
func ReadWithLogger(r io.Reader, log *zap.Logger) (Index, error) {
	checkpoint, err := readU64(r)
	if err != nil {
		return nil, err
	}
	var discByte [1]byte
	if _, err := io.ReadFull(r, discByte[:]); err != nil {
		return nil, err
	}
	definedBS, err := bitstream.Read(r)
	if err != nil {
		return nil, err
	}
	defined, ok := definedBS.(*bitstream.EWAH)
	if !ok {
		return nil, vasterr.New(vasterr.KindIO, vasterr.WithOp("bitmapindex.Read"),
			vasterr.WithMsg("defined mask was not persisted as EWAH"))
	}
	switch discriminant(discByte[0]) {
	case discBool:
		idx := NewBoolIndex(log)
		if err := readDiscreteBody(r, &idx.discrete, func() (value.Value, error) {
			var b [1]byte
			if _, err := io.ReadFull(r, b[:]); err != nil {
				return value.Value{}, err
			}
			return value.NewBool(b[0] != 0), nil
		}); err != nil {
			return nil, err
		}
		idx.defined = defined
		idx.lastCheckpoint = checkpoint
		return idx, nil
	case discString:
		idx := NewStringIndex(log)
		if err := readDiscreteBody(r, &idx.discrete, func() (value.Value, error) {
			s, err := readString(r)
			if err != nil {
				return value.Value{}, err
			}
			return value.NewString(s), nil
		}); err != nil {
			return nil, err
		}
		idx.defined = defined
		idx.lastCheckpoint = checkpoint
		return idx, nil
	case discPort:
		idx := NewPortIndex(log)
		if err := readDiscreteBody(r, &idx.discrete, func() (value.Value, error) {
			var number uint16
			var proto uint8
			if err := binary.Read(r, binary.LittleEndian, &number); err != nil {
				return value.Value{}, err
			}
			if err := binary.Read(r, binary.LittleEndian, &proto); err != nil {
				return value.Value{}, err
			}
			return value.NewPort(number, value.Proto(proto)), nil
		}); err != nil {
			return nil, err
		}
		idx.defined = defined
		idx.lastCheckpoint = checkpoint
		return idx, nil
	case discArithmetic:
		var kindByte [1]byte
		if _, err := io.ReadFull(r, kindByte[:]); err != nil {
			return nil, err
		}
		idx := NewArithmeticIndex(value.Kind(kindByte[0]), log)
		for i := range idx.planes {
			bs, err := bitstream.Read(r)
			if err != nil {
				return nil, err
			}
			ewah, ok := bs.(*bitstream.EWAH)
			if !ok {
				return nil, vasterr.New(vasterr.KindIO, vasterr.WithOp("bitmapindex.Read"),
					vasterr.WithMsg("arithmetic plane was not persisted as EWAH"))
			}
			idx.planes[i] = ewah
		}
		idx.size = idx.planes[0].Size()
		idx.defined = defined
		idx.lastCheckpoint = checkpoint
		return idx, nil
	case discAddress:
		idx := NewAddressIndex(log)
		for i := range idx.planes {
			bs, err := bitstream.Read(r)
			if err != nil {
				return nil, err
			}
			ewah, ok := bs.(*bitstream.EWAH)
			if !ok {
				return nil, vasterr.New(vasterr.KindIO, vasterr.WithOp("bitmapindex.Read"),
					vasterr.WithMsg("address plane was not persisted as EWAH"))
			}
			idx.planes[i] = ewah
		}
		idx.size = idx.planes[0].Size()
		idx.defined = defined
		idx.lastCheckpoint = checkpoint
		return idx, nil
	default:
		return nil, vasterr.New(vasterr.KindIO, vasterr.WithOp("bitmapindex.Read"),
			vasterr.WithMsg(fmt.Sprintf("unknown discriminant %d", discByte[0])))
	}
}

func readDiscreteBody(r io.Reader, d *discrete, readKey func() (value.Value, error)) error {
	size, err := readU64(r)
	if err != nil {
		return err
	}
	n, err := readU64(r)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		v, err := readKey()
		if err != nil {
			return err
		}
		bs, err := bitstream.Read(r)
		if err != nil {
			return err
		}
		ewah, ok := bs.(*bitstream.EWAH)
		if !ok {
			return vasterr.New(vasterr.KindIO, vasterr.WithOp("bitmapindex.readDiscreteBody"),
				vasterr.WithMsg("dictionary entry was not persisted as EWAH"))
		}
		key := discreteKeyOf(v)
		d.dict[key] = ewah
		d.decode[key] = v
		d.order = append(d.order, key)
	}
	d.size = size
	return nil
}

// discreteKeyOf rebuilds the dictionary key a live pushBack would have
// used, so a deserialized index's lookups behave identically.
func discreteKeyOf(v value.Value) string {
	switch v.Kind {
	case value.Bool:
		return boolKey(v.BoolVal())
	case value.String:
		return v.StringVal()
	case value.Port:
		return portKey(v.PortVal())
	default:
		return v.String()
	}
}
