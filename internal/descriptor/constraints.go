package descriptor

import "fmt"

// ConstraintKind identifies a constraint annotation
type ConstraintKind int

const (
	ConstraintMinimum ConstraintKind = iota
	ConstraintMaximum
	ConstraintMinLength
	ConstraintMaxLength
	ConstraintPattern
)

// String returns the string representation of the constraint kind
func (k ConstraintKind) String() string {
	switch k {
	case ConstraintMinimum:
		return "minimum"
	case ConstraintMaximum:
		return "maximum"
	case ConstraintMinLength:
		return "minLength"
	case ConstraintMaxLength:
		return "maxLength"
	case ConstraintPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Constraint is an externally supplied annotation applied onto a schema
// node (numeric range, length bounds, or pattern).
type Constraint struct {
	Kind    ConstraintKind
	Number  float64
	Length  int
	Pattern string
}

// ValueString renders the constraint's value for diagnostics
func (c Constraint) ValueString() string {
	switch c.Kind {
	case ConstraintMinimum, ConstraintMaximum:
		return fmt.Sprintf("%v", c.Number)
	case ConstraintMinLength, ConstraintMaxLength:
		return fmt.Sprintf("%d", c.Length)
	case ConstraintPattern:
		return c.Pattern
	default:
		return ""
	}
}

// Minimum creates a numeric lower-bound constraint
func Minimum(v float64) Constraint {
	return Constraint{Kind: ConstraintMinimum, Number: v}
}

// Maximum creates a numeric upper-bound constraint
func Maximum(v float64) Constraint {
	return Constraint{Kind: ConstraintMaximum, Number: v}
}

// MinLength creates a minimum-length constraint
func MinLength(n int) Constraint {
	return Constraint{Kind: ConstraintMinLength, Length: n}
}

// MaxLength creates a maximum-length constraint
func MaxLength(n int) Constraint {
	return Constraint{Kind: ConstraintMaxLength, Length: n}
}

// Pattern creates a regular-expression pattern constraint
func Pattern(expr string) Constraint {
	return Constraint{Kind: ConstraintPattern, Pattern: expr}
}
