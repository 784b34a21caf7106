package expr

import (
	"regexp"
	"strings"

	"go.uber.org/multierr"

	"github.com/tenzir/vast/schema"
	"github.com/tenzir/vast/value"
	"github.com/tenzir/vast/vasterr"
)

// adder is the shared capability of Conjunction and Disjunction during
// construction: append an operand.
type adder interface {
	Add(Node)
}

func (c *Conjunction) Add(n Node) { c.Operands = append(c.Operands, n) }
func (d *Disjunction) Add(n Node) { d.Operands = append(d.Operands, n) }

// Normalize turns a parser-validated Query into the normalized AST: negation
// pushed to operator complements, top level in disjunctive-normal form, and
// every schema predicate resolved to its offsets.
func Normalize(q Query, sch *schema.Schema) (Node, error) {
	if len(q.Rest) == 0 {
		root := &Conjunction{}
		if err := addPredicate(q.Head, false, root, sch); err != nil {
			return nil, err
		}
		return root, nil
	}

	// Split at every OR into groups of AND-joined predicates.
	type group struct {
		head QueryPredicate
		rest []QueryPredicate
	}
	groups := []group{{head: q.Head}}
	for _, tail := range q.Rest {
		if tail.Op == Or {
			groups = append(groups, group{head: tail.Predicate})
		} else {
			last := &groups[len(groups)-1]
			last.rest = append(last.rest, tail.Predicate)
		}
	}

	var root adder
	var rootNode Node
	if len(groups) >= 2 {
		d := &Disjunction{}
		root, rootNode = d, d
	}

	for _, g := range groups {
		var local adder
		if root == nil {
			c := &Conjunction{}
			root, rootNode = c, c
			local = c
		} else if len(g.rest) > 0 {
			c := &Conjunction{}
			root.Add(c)
			local = c
		} else {
			local = root
		}
		if err := addPredicate(g.head, false, local, sch); err != nil {
			return nil, err
		}
		for _, p := range g.rest {
			if err := addPredicate(p, false, local, sch); err != nil {
				return nil, err
			}
		}
	}
	return rootNode, nil
}

// addPredicate builds the AST for one parsed predicate and appends it to
// target, pushing down invert as an operator complement.
func addPredicate(pred QueryPredicate, invert bool, target adder, sch *schema.Schema) error {
	switch p := pred.(type) {
	case TagPredicate:
		op := p.Op
		if invert {
			op = op.Negate()
		}
		var lhs Node
		switch p.LHS {
		case "name":
			lhs = NameExtractor{}
		case "time":
			lhs = TimestampExtractor{}
		case "id":
			lhs = IDExtractor{}
		default:
			return vasterr.New(vasterr.KindSchemaResolution,
				vasterr.WithOp("expr.normalize"),
				vasterr.WithMsg("unknown tag: "+p.LHS))
		}
		if _, isName := lhs.(NameExtractor); isName && op == value.OpEqual && p.RHS.Kind == value.String {
			if re, ok := globRegex(p.RHS.StringVal()); ok {
				target.Add(&Predicate{Op: value.OpMatch, LHS: lhs, RHS: &Constant{Value: value.NewRegex(re)}})
				return nil
			}
		}
		target.Add(&Predicate{Op: op, LHS: lhs, RHS: &Constant{Value: p.RHS}})
		return nil

	case TypePredicate:
		op := p.Op
		if invert {
			op = op.Negate()
		}
		target.Add(&Predicate{Op: op, LHS: &TypeExtractor{Type: p.LHS}, RHS: &Constant{Value: p.RHS}})
		return nil

	case OffsetPredicate:
		op := p.Op
		if invert {
			op = op.Negate()
		}
		target.Add(&Predicate{Op: op, LHS: &OffsetExtractor{Event: p.Event, Offset: p.Off}, RHS: &Constant{Value: p.RHS}})
		return nil

	case SchemaPredicate:
		op := p.Op
		if invert {
			op = op.Negate()
		}
		offs := sch.FindOffsets(p.LHS)
		if len(offs) == 0 {
			return vasterr.New(vasterr.KindSchemaResolution,
				vasterr.WithOp("expr.normalize"),
				vasterr.WithMsg("invalid argument name sequence: "+strings.Join(p.LHS, ".")))
		}
		first, ok := sch.FindType(offs[0].Event, offs[0].Offset)
		if !ok {
			return vasterr.New(vasterr.KindSchemaResolution,
				vasterr.WithOp("expr.normalize"),
				vasterr.WithMsg("unresolved offset type"))
		}
		disj := &Disjunction{}
		var clashes error
		for _, eo := range offs {
			kind, ok := sch.FindType(eo.Event, eo.Offset)
			if !ok {
				clashes = multierr.Append(clashes, vasterr.New(vasterr.KindSchemaResolution,
					vasterr.WithOp("expr.normalize"),
					vasterr.WithMsg("unresolved offset type at "+eo.Event+"."+strings.Join(p.LHS, "."))))
				continue
			}
			if !schema.Represents(kind, first) {
				clashes = multierr.Append(clashes, vasterr.New(vasterr.KindSchemaResolution,
					vasterr.WithOp("expr.normalize"),
					vasterr.WithMsg("type clash in "+eo.Event+": "+kind.String()+" <> "+first.String())))
				continue
			}
			disj.Add(&Predicate{
				Op:  op,
				LHS: &OffsetExtractor{Event: eo.Event, Offset: eo.Offset},
				RHS: &Constant{Value: p.RHS},
			})
		}
		if clashes != nil {
			return clashes
		}
		target.Add(disj)
		return nil

	case NegatedPredicate:
		return addPredicate(p.Operand, true, target, sch)

	default:
		return vasterr.New(vasterr.KindInternalInvariant,
			vasterr.WithOp("expr.normalize"),
			vasterr.WithMsg("unknown predicate kind"))
	}
}

var globMeta = regexp.MustCompile(`[*?]`)

// globRegex reports whether s contains a glob wildcard and, if so, compiles
// its regex translation: `*` becomes `.*`, `?` becomes `.`, every other
// regex metacharacter is escaped, and the whole pattern is anchored.
func globRegex(s string) (*regexp.Regexp, bool) {
	if !globMeta.MatchString(s) {
		return nil, false
	}
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range s {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return regexp.MustCompile(b.String()), true
}
