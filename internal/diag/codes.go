package diag

// Diagnostic code constants organized by concern
// SF100-SF199: Schema id assignment
// SF200-SF299: Recursion and depth limiting
// SF300-SF399: Constraint application
// SF400-SF499: Enum representation
// SF500-SF599: Schema virtualization

const (
	// Schema id assignment (SF100-SF199)
	CodeSchemaIDCollision = "SF101"

	// Recursion and depth limiting (SF200-SF299)
	CodeDepthExceeded = "SF201"

	// Constraint application (SF300-SF399)
	CodeConstraintOverwrite = "SF301"

	// Enum representation (SF400-SF499)
	CodeEnumOverflowFallback = "SF401"
	CodeEnumTruncated        = "SF402"

	// Schema virtualization (SF500-SF599)
	CodeSchemaVirtualized = "SF501"
)

// Messages maps diagnostic codes to their default messages
var Messages = map[string]string{
	CodeSchemaIDCollision:    "Schema id collision resolved with suffix",
	CodeDepthExceeded:        "Maximum schema depth exceeded",
	CodeConstraintOverwrite:  "Constraint value overwritten",
	CodeEnumOverflowFallback: "Enum value exceeds 64-bit range, falling back to string representation",
	CodeEnumTruncated:        "Enum value list truncated",
	CodeSchemaVirtualized:    "Schema exceeds size thresholds and was marked for virtualization",
}

// MessageFor returns the default message for a diagnostic code
func MessageFor(code string) string {
	if msg, ok := Messages[code]; ok {
		return msg
	}
	return "Unknown diagnostic"
}

// ConcernFor returns the concern name for a diagnostic code
func ConcernFor(code string) string {
	if len(code) < 5 || code[:2] != "SF" {
		return "unknown"
	}

	switch {
	case code >= "SF100" && code <= "SF199":
		return "schema_id"
	case code >= "SF200" && code <= "SF299":
		return "recursion"
	case code >= "SF300" && code <= "SF399":
		return "constraint"
	case code >= "SF400" && code <= "SF499":
		return "enum"
	case code >= "SF500" && code <= "SF599":
		return "virtualization"
	default:
		return "unknown"
	}
}
