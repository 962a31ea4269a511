package table

// Kind is the declared semantic type of a column
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindDecimal
	KindPercentage
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindPercentage:
		return "percentage"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether values of this kind carry a number
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindDecimal || k == KindPercentage
}

// UnifyKinds returns the kind able to hold values of both a and b.
// Integer widens to Decimal, any numeric kind widens to Percentage.
// Mixing text, dates and numbers is not allowed.
func UnifyKinds(a, b Kind) (Kind, bool) {
	if a == b {
		return a, true
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return a, false
	}
	if a == KindPercentage || b == KindPercentage {
		return KindPercentage, true
	}
	return KindDecimal, true
}
