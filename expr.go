package bitfield

// Expr is a raw SQL expression with bind arguments. Identifiers are quoted with backticks; hosts
// convert them to their dialect quote char.
type Expr struct {
	SQL  string
	Args []interface{}
}

// NewExpr generate raw SQL expression, for example:
//     NewExpr("`status` | ?", 4)
func NewExpr(expression string, args ...interface{}) *Expr {
	return &Expr{expression, args}
}

// FlagsExpr returns the expression of column with the bits of set set and the bits of clear
// cleared.
func FlagsExpr(column string, set, clear int64) *Expr {
	current := "COALESCE(`" + column + "`, 0)"
	switch {
	case clear == 0:
		return NewExpr("("+current+" | ?)", set)
	case set == 0:
		return NewExpr("("+current+" - ("+current+" & ?))", clear)
	default:
		return NewExpr("(("+current+" | ?) - (("+current+" | ?) & ?))", set, set, clear)
	}
}
