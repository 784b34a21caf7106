package value

// Equal reports structural equality: same discriminant and an equal
// payload. Values of different discriminants are never equal, regardless
// of payload (see the cross-type != note on Compare).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Invalid:
		return true
	case Bool:
		return a.boolVal == b.boolVal
	case Int:
		return a.intVal == b.intVal
	case Uint:
		return a.uintVal == b.uintVal
	case Double:
		return a.doubleVal == b.doubleVal
	case TimeRange:
		return a.rangeVal == b.rangeVal
	case TimePoint:
		return a.pointVal.Equal(b.pointVal)
	case String:
		return a.strVal == b.strVal
	case Regex:
		return regexEqual(a, b)
	case Address:
		return a.addrVal == b.addrVal
	case Prefix:
		return a.pfxVal == b.pfxVal
	case Port:
		return a.portVal == b.portVal
	case Record, Vector:
		return sliceEqualOrdered(a.container, b.container)
	case Set:
		return sliceEqualUnordered(a.container, b.container)
	case Table:
		return tableEqual(a.table, b.table)
	default:
		return false
	}
}

func regexEqual(a, b Value) bool {
	if a.reVal == nil || b.reVal == nil {
		return a.reVal == nil && b.reVal == nil
	}
	return a.reVal.String() == b.reVal.String()
}

func sliceEqualOrdered(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// sliceEqualUnordered treats a and b as multisets: equal iff every element
// of a can be matched to a distinct, equal element of b.
func sliceEqualUnordered(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, av := range a {
		matched := false
		for j, bv := range b {
			if !used[j] && Equal(av, bv) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func tableEqual(a, b []Pair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i].Key, b[i].Key) || !Equal(a[i].Val, b[i].Val) {
			return false
		}
	}
	return true
}

// NotEqual mirrors the source's heterogeneous "!=" semantics: across
// different discriminants it is unconditionally true, which is why callers
// must not treat it as the strict negation of Equal for ordering purposes
// — use Compare when an order relation is needed.
func NotEqual(a, b Value) bool {
	return !Equal(a, b)
}
