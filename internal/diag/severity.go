package diag

// Severity defines the importance of a diagnostic. Anything at or above
// SevSyntaxError invalidates the unit it was collected into.
type Severity uint8

const (
	// SevWarning is advisory and never invalidates a unit.
	SevWarning Severity = iota
	// SevSyntaxError is produced by the parsing layer only.
	SevSyntaxError
	// SevVerifyError is produced by the verifier.
	SevVerifyError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevSyntaxError:
		return "SYNTAX ERROR"
	case SevVerifyError:
		return "VERIFY ERROR"
	}
	return "UNKNOWN"
}

// IsError reports whether s invalidates a unit.
func (s Severity) IsError() bool {
	return s >= SevSyntaxError
}
