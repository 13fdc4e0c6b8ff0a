package search

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Matcher decides whether one decoded line matches.
type Matcher interface {
	Match(line string) bool
}

// Compile builds the matcher for q. Regex compile errors wrap
// ErrInvalidPattern.
func Compile(q Query) (Matcher, error) {
	switch q.Mode {
	case ModeRegex:
		expr := q.Term
		if !q.CaseSensitive {
			// The flag keeps multi-byte text intact, unlike folding the input.
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		return regexMatcher{re: re}, nil
	case ModeSubstring:
		if q.CaseSensitive {
			return substringMatcher{term: q.Term}, nil
		}
		fold := cases.Fold()
		return &foldMatcher{fold: fold, term: fold.String(q.Term)}, nil
	default:
		return nil, fmt.Errorf("unknown match mode %d", q.Mode)
	}
}

type regexMatcher struct{ re *regexp.Regexp }

func (m regexMatcher) Match(line string) bool { return m.re.MatchString(line) }

type substringMatcher struct{ term string }

func (m substringMatcher) Match(line string) bool { return strings.Contains(line, m.term) }

// foldMatcher folds both sides to a common case. A cases.Caser is stateful,
// so a foldMatcher must not be shared between goroutines.
type foldMatcher struct {
	fold cases.Caser
	term string
}

func (m *foldMatcher) Match(line string) bool {
	return strings.Contains(m.fold.String(line), m.term)
}
