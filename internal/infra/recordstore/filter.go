package recordstore

import "strings"

// Expr is a node of the store's boolean filter formula. Building formulas
// through these nodes keeps field names and values escaped in one place
// instead of scattering string concatenation around the callers.
type Expr interface {
	Formula() string
}

type eqExpr struct {
	field string
	value string
	fold  bool
}

// Eq compares a field to a literal value.
func Eq(field, value string) Expr {
	return eqExpr{field: field, value: value}
}

// EqFold compares case-insensitively by lowering both sides.
func EqFold(field, value string) Expr {
	return eqExpr{field: field, value: strings.ToLower(value), fold: true}
}

func (e eqExpr) Formula() string {
	f := "{" + escapeField(e.field) + "}"
	if e.fold {
		f = "LOWER(" + f + ")"
	}
	return f + " = '" + escapeValue(e.value) + "'"
}

type listExpr struct {
	field string
	value string
}

// InList matches when value is a member of a linked/multi-value field.
func InList(field, value string) Expr {
	return listExpr{field: field, value: value}
}

func (e listExpr) Formula() string {
	return "FIND('" + escapeValue(e.value) + "', ARRAYJOIN({" + escapeField(e.field) + "})) > 0"
}

type boolExpr struct {
	op    string
	exprs []Expr
}

func And(exprs ...Expr) Expr { return boolExpr{op: "AND", exprs: exprs} }
func Or(exprs ...Expr) Expr  { return boolExpr{op: "OR", exprs: exprs} }

func (e boolExpr) Formula() string {
	if len(e.exprs) == 1 {
		return e.exprs[0].Formula()
	}
	parts := make([]string, 0, len(e.exprs))
	for _, sub := range e.exprs {
		parts = append(parts, sub.Formula())
	}
	return e.op + "(" + strings.Join(parts, ", ") + ")"
}

func escapeValue(v string) string {
	return strings.ReplaceAll(v, "'", `\'`)
}

// Field names come from our own table definitions, but strip braces anyway so
// a bad name cannot break out of the placeholder.
func escapeField(f string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(f)
}
