package sqlexpr

// Equals is left = right.
type Equals struct {
	Left, Right Expr
}

// NotEquals is left <> right.
type NotEquals struct {
	Left, Right Expr
}

// LessThan is left < right.
type LessThan struct {
	Left, Right Expr
}

// GreaterThan is left > right.
type GreaterThan struct {
	Left, Right Expr
}

// Plus is left + right.
type Plus struct {
	Left, Right Expr
}

// And is a conjunction. An empty And renders as TRUE.
type And struct {
	Items []Expr
}

// Or is a disjunction. An empty Or renders as FALSE.
type Or struct {
	Items []Expr
}

// Exists is EXISTS (subquery).
type Exists struct {
	Query *Select
}

// NotExists is NOT EXISTS (subquery).
type NotExists struct {
	Query *Select
}

func (Equals) exprNode()      {}
func (NotEquals) exprNode()   {}
func (LessThan) exprNode()    {}
func (GreaterThan) exprNode() {}
func (Plus) exprNode()        {}
func (And) exprNode()         {}
func (Or) exprNode()          {}
func (Exists) exprNode()      {}
func (NotExists) exprNode()   {}

// Eq creates an equality comparison.
func Eq(left, right Expr) Equals {
	return Equals{Left: left, Right: right}
}

// Ne creates an inequality comparison.
func Ne(left, right Expr) NotEquals {
	return NotEquals{Left: left, Right: right}
}

// Lt creates a less-than comparison.
func Lt(left, right Expr) LessThan {
	return LessThan{Left: left, Right: right}
}

// Gt creates a greater-than comparison.
func Gt(left, right Expr) GreaterThan {
	return GreaterThan{Left: left, Right: right}
}

// Add creates an addition.
func Add(left, right Expr) Plus {
	return Plus{Left: left, Right: right}
}

// AndOf creates a conjunction, flattening nested Ands.
func AndOf(items ...Expr) And {
	var out []Expr
	for _, it := range items {
		if nested, ok := it.(And); ok {
			out = append(out, nested.Items...)
			continue
		}
		out = append(out, it)
	}
	return And{Items: out}
}

// OrOf creates a disjunction.
func OrOf(items ...Expr) Or {
	return Or{Items: items}
}

// Simplify returns the single item of a one-element And/Or, the expression
// itself otherwise.
func Simplify(e Expr) Expr {
	switch v := e.(type) {
	case And:
		if len(v.Items) == 1 {
			return Simplify(v.Items[0])
		}
	case Or:
		if len(v.Items) == 1 {
			return Simplify(v.Items[0])
		}
	}
	return e
}
