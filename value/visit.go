package value

import (
	"net/netip"
	"regexp"
	"strings"
)

// Operator is the value-level relational/match vocabulary the predicate
// node of the expression engine evaluates.
type Operator int

const (
	OpMatch    Operator = iota // ~
	OpNotMatch                 // !~
	OpIn                       // in
	OpNotIn                    // !in
	OpNi                       // ni (substring/containee, reversed in/ni)
	OpNotNi                    // !ni
	OpEqual                    // =
	OpNotEqual                 // !=
	OpLess                     // <
	OpLessEqual                // <=
	OpGreater                  // >
	OpGreaterEqual             // >=
)

func (op Operator) String() string {
	switch op {
	case OpMatch:
		return "~"
	case OpNotMatch:
		return "!~"
	case OpIn:
		return "in"
	case OpNotIn:
		return "!in"
	case OpNi:
		return "ni"
	case OpNotNi:
		return "!ni"
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// Negate returns op's complement, the operator satisfying
// `not (a op b) == a op.Negate() b` for every pair the predicate evaluator
// understands.
func (op Operator) Negate() Operator {
	switch op {
	case OpMatch:
		return OpNotMatch
	case OpNotMatch:
		return OpMatch
	case OpIn:
		return OpNotIn
	case OpNotIn:
		return OpIn
	case OpNi:
		return OpNotNi
	case OpNotNi:
		return OpNi
	case OpEqual:
		return OpNotEqual
	case OpNotEqual:
		return OpEqual
	case OpLess:
		return OpGreaterEqual
	case OpGreaterEqual:
		return OpLess
	case OpLessEqual:
		return OpGreater
	case OpGreater:
		return OpLessEqual
	default:
		return op
	}
}

// Visit implements double dispatch over (lhs.Kind, rhs.Kind, op): the
// meaningful type-pair overloads the expression engine relies on, with
// every other combination defaulting to false. It never panics on a
// mismatched pair — mismatches degrade to a false verdict rather than an
// error the caller must handle; the negated operators (!=, !~, !in, !ni)
// return the complement, so a mismatched pair yields true for them.
func Visit(op Operator, lhs, rhs Value) bool {
	switch op {
	case OpEqual:
		return Equal(lhs, rhs)
	case OpNotEqual:
		return NotEqual(lhs, rhs)
	case OpLess:
		return Compare(lhs, rhs).IsLess()
	case OpLessEqual:
		o := Compare(lhs, rhs)
		return o.IsLess() || o.IsEqual()
	case OpGreater:
		return Compare(lhs, rhs).IsGreater()
	case OpGreaterEqual:
		o := Compare(lhs, rhs)
		return o.IsGreater() || o.IsEqual()
	case OpMatch, OpNotMatch:
		matched := visitMatch(lhs, rhs)
		if op == OpNotMatch {
			return !matched
		}
		return matched
	case OpIn, OpNotIn:
		contained := visitIn(lhs, rhs)
		if op == OpNotIn {
			return !contained
		}
		return contained
	case OpNi, OpNotNi:
		// ni is in with operands reversed: "a ni b" means "b in a".
		contained := visitIn(rhs, lhs)
		if op == OpNotNi {
			return !contained
		}
		return contained
	default:
		return false
	}
}

// visitMatch implements the ~ operator's type-pair overloads: a string
// matched against a regex (see MatchRegex).
func visitMatch(lhs, rhs Value) bool {
	switch {
	case lhs.Kind == String && rhs.Kind == Regex:
		return MatchRegex(lhs.strVal, rhs.reVal)
	case lhs.Kind == Regex && rhs.Kind == String:
		return MatchRegex(rhs.strVal, lhs.reVal)
	default:
		return false
	}
}

// visitIn implements the "in" family's meaningful pairs: substring
// containment for strings, prefix containment for addresses, and element
// membership for the container kinds.
func visitIn(lhs, rhs Value) bool {
	switch {
	case lhs.Kind == String && rhs.Kind == String:
		return FindString(rhs.strVal, lhs.strVal)
	case lhs.Kind == Address && rhs.Kind == Prefix:
		return PrefixContains(rhs.pfxVal, lhs.addrVal)
	case rhs.Kind == Vector || rhs.Kind == Set:
		for _, e := range rhs.container {
			if Equal(lhs, e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// MatchRegex reports whether re matches s (regex.match). The match is
// anchored only where re's own pattern anchors it (^...$); an unanchored
// pattern matches any substring of s.
func MatchRegex(s string, re *regexp.Regexp) bool {
	if re == nil {
		return false
	}
	return re.MatchString(s)
}

// SearchRegex reports whether re matches any substring of s (regex.search).
// Go's RE2 engine has no anchoring distinction from MatchRegex beyond what
// the pattern itself specifies, so both share MatchString; the source
// distinguishes match (full string) from search (substring) at the pattern
// level by anchoring match's pattern with ^...$ during construction — this
// port keeps that responsibility with the caller that builds the regex.
func SearchRegex(s string, re *regexp.Regexp) bool {
	if re == nil {
		return false
	}
	return re.MatchString(s)
}

// FindString reports whether needle occurs anywhere in haystack
// (string.find).
func FindString(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

// PrefixContains reports whether p contains a (prefix.contains(address)).
func PrefixContains(p netip.Prefix, a netip.Addr) bool {
	return p.Contains(a)
}
