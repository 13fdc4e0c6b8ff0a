package search

// Mode selects how Query.Term is matched against each line.
type Mode int

const (
	// ModeRegex finds Term as an RE2 regular expression anywhere in the line.
	ModeRegex Mode = iota
	// ModeSubstring finds Term as a literal substring.
	ModeSubstring
)

// String returns the mode name used in flags and logs.
func (m Mode) String() string {
	switch m {
	case ModeRegex:
		return "regex"
	case ModeSubstring:
		return "substring"
	default:
		return "unknown"
	}
}

// Query is one search request. Mode and CaseSensitive are independent.
type Query struct {
	Term          string
	Mode          Mode
	CaseSensitive bool
}

// Match is one matched line.
type Match struct {
	// Line is the decoded line without its terminator.
	Line string
	// LineNo is 1-based.
	LineNo int
	// Degraded reports that invalid bytes were dropped while decoding.
	Degraded bool
}

// Result holds every match of a search in artifact order.
type Result struct {
	Matches []string
	// Lines is the number of lines scanned.
	Lines int
	// Degraded counts lines that needed lossy decoding, matched or not.
	Degraded int
}
