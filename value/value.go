// Package value implements the tagged-union value model shared by events,
// bitmap indexes and the expression engine: a single discriminated type
// wide enough to hold every domain scalar (bool, signed/unsigned integers,
// double, time range/point, string, regex, address, prefix, port) plus the
// three container shapes (record, vector, set) and an associative table.
package value

import (
	"fmt"
	"net/netip"
	"regexp"
	"time"
)

// Kind discriminates the variant currently held by a Value.
type Kind uint8

const (
	Invalid Kind = iota
	Bool
	Int
	Uint
	Double
	TimeRange
	TimePoint
	String
	Regex
	Address
	Prefix
	Port
	Record
	Vector
	Set
	Table
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Double:
		return "double"
	case TimeRange:
		return "timeRange"
	case TimePoint:
		return "timePoint"
	case String:
		return "string"
	case Regex:
		return "regex"
	case Address:
		return "address"
	case Prefix:
		return "prefix"
	case Port:
		return "port"
	case Record:
		return "record"
	case Vector:
		return "vector"
	case Set:
		return "set"
	case Table:
		return "table"
	default:
		return "unknown"
	}
}

// Proto names a transport protocol a Port value applies to.
type Proto uint8

const (
	ProtoUnknown Proto = iota
	ProtoTCP
	ProtoUDP
	ProtoICMP
)

func (p Proto) String() string {
	switch p {
	case ProtoTCP:
		return "tcp"
	case ProtoUDP:
		return "udp"
	case ProtoICMP:
		return "icmp"
	default:
		return "?"
	}
}

// PortNumber is a (number, protocol) pair, the payload of a Port value.
type PortNumber struct {
	Number uint16
	Proto  Proto
}

// Pair is one key/value entry of a Table, kept in insertion order; lookups
// are linear since Value is not a comparable Go map key (it embeds slices).
type Pair struct {
	Key Value
	Val Value
}

// Value is a tagged union over every discriminant the core indexes.
// Exactly one payload field is meaningful, selected by Kind; the zero
// Value is the Invalid discriminant, mirroring the source's default
// constructor.
type Value struct {
	Kind Kind

	boolVal   bool
	intVal    int64
	uintVal   uint64
	doubleVal float64
	rangeVal  time.Duration
	pointVal  time.Time
	strVal    string
	reVal     *regexp.Regexp
	addrVal   netip.Addr
	pfxVal    netip.Prefix
	portVal   PortNumber

	container []Value // Record, Vector, Set
	table     []Pair  // Table
}

func NewInvalid() Value { return Value{Kind: Invalid} }
func NewBool(b bool) Value { return Value{Kind: Bool, boolVal: b} }
func NewInt(i int64) Value { return Value{Kind: Int, intVal: i} }
func NewUint(u uint64) Value { return Value{Kind: Uint, uintVal: u} }
func NewDouble(d float64) Value { return Value{Kind: Double, doubleVal: d} }
func NewTimeRange(d time.Duration) Value { return Value{Kind: TimeRange, rangeVal: d} }
func NewTimePoint(t time.Time) Value { return Value{Kind: TimePoint, pointVal: t} }
func NewString(s string) Value { return Value{Kind: String, strVal: s} }
func NewRegex(re *regexp.Regexp) Value { return Value{Kind: Regex, reVal: re} }
func NewAddress(a netip.Addr) Value { return Value{Kind: Address, addrVal: a} }
func NewPrefix(p netip.Prefix) Value { return Value{Kind: Prefix, pfxVal: p} }
func NewPort(number uint16, proto Proto) Value {
	return Value{Kind: Port, portVal: PortNumber{Number: number, Proto: proto}}
}

// NewRecord wraps an ordered, positionally-indexed sequence of fields.
func NewRecord(fields ...Value) Value { return Value{Kind: Record, container: fields} }

// NewVector wraps an ordered, homogeneous-in-spirit sequence.
func NewVector(elems ...Value) Value { return Value{Kind: Vector, container: elems} }

// NewSet wraps an unordered collection; equality ignores element order.
func NewSet(elems ...Value) Value { return Value{Kind: Set, container: elems} }

// NewTable wraps an association list, ordered by insertion.
func NewTable(pairs ...Pair) Value { return Value{Kind: Table, table: pairs} }

func (v Value) BoolVal() bool           { return v.boolVal }
func (v Value) IntVal() int64           { return v.intVal }
func (v Value) UintVal() uint64         { return v.uintVal }
func (v Value) DoubleVal() float64      { return v.doubleVal }
func (v Value) TimeRangeVal() time.Duration { return v.rangeVal }
func (v Value) TimePointVal() time.Time { return v.pointVal }
func (v Value) StringVal() string       { return v.strVal }
func (v Value) RegexVal() *regexp.Regexp { return v.reVal }
func (v Value) AddressVal() netip.Addr  { return v.addrVal }
func (v Value) PrefixVal() netip.Prefix { return v.pfxVal }
func (v Value) PortVal() PortNumber     { return v.portVal }

// Fields returns the elements of a Record, Vector, or Set.
func (v Value) Fields() []Value { return v.container }

// Pairs returns the entries of a Table.
func (v Value) Pairs() []Pair { return v.table }

// At returns the field at offset path inside a (possibly nested) Record,
// reporting false if the path does not resolve (wrong kind, out of range,
// or an intermediate field is not itself a Record).
func (v Value) At(offset ...int) (Value, bool) {
	cur := v
	for _, idx := range offset {
		if cur.Kind != Record || idx < 0 || idx >= len(cur.container) {
			return Value{}, false
		}
		cur = cur.container[idx]
	}
	return cur, true
}

// Nil reports whether v holds its discriminant's default (cleared) payload
// without being Invalid — mirrors the source's nil()/invalid() split where
// a cleared value keeps its type tag but carries no meaningful payload.
// The Go rendering collapses that distinction: Nil is true for any
// non-Invalid Value whose payload equals its discriminant's zero value.
func (v Value) Nil() bool {
	if v.Kind == Invalid {
		return false
	}
	zero := Value{Kind: v.Kind}
	return Equal(v, zero)
}

func (v Value) String() string {
	switch v.Kind {
	case Invalid:
		return "<invalid>"
	case Bool:
		if v.boolVal {
			return "T"
		}
		return "F"
	case Int:
		if v.intVal >= 0 {
			return fmt.Sprintf("+%d", v.intVal)
		}
		return fmt.Sprintf("%d", v.intVal)
	case Uint:
		return fmt.Sprintf("%d", v.uintVal)
	case Double:
		return fmt.Sprintf("%f", v.doubleVal)
	case TimeRange:
		return v.rangeVal.String()
	case TimePoint:
		return v.pointVal.String()
	case String:
		return fmt.Sprintf("%q", v.strVal)
	case Regex:
		if v.reVal == nil {
			return "/.../"
		}
		return "/" + v.reVal.String() + "/"
	case Address:
		return v.addrVal.String()
	case Prefix:
		return v.pfxVal.String()
	case Port:
		return fmt.Sprintf("%d/%s", v.portVal.Number, v.portVal.Proto)
	case Record:
		return fmt.Sprintf("%v", v.container)
	case Vector:
		return fmt.Sprintf("%v", v.container)
	case Set:
		return fmt.Sprintf("%v", v.container)
	case Table:
		return fmt.Sprintf("%v", v.table)
	default:
		return "<unknown>"
	}
}
