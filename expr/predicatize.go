package expr

// Predicatize flattens a normalized AST into its leaf predicates, the way
// the driver's index dispatch needs them, grounded on the
// source's `predicatize`/`predicator` visitor.
func Predicatize(n Node) []*Predicate {
	var out []*Predicate
	var walk func(Node)
	walk = func(n Node) {
		switch t := n.(type) {
		case *Predicate:
			out = append(out, t)
		case *Conjunction:
			for _, op := range t.Operands {
				walk(op)
			}
		case *Disjunction:
			for _, op := range t.Operands {
				walk(op)
			}
		}
	}
	walk(n)
	return out
}
