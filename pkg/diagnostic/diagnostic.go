package diagnostic

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/transkit/pkg/unit"
)

// Code is the machine-oriented identifier of a diagnostic.
type Code string

const (
	CodeSelfReference     Code = "self-reference"
	CodeInvalidReference  Code = "invalid-reference"
	CodeUnresolvedAlias   Code = "unresolved-alias"
	CodeMissingKey        Code = "missing-key"
	CodeMissingPath       Code = "missing-path"
	CodeCircularReference Code = "circular-reference"
	CodeInvalidEmbedding  Code = "invalid-embedding"

	CodeMissingFile   Code = "missing-file"
	CodeExtraFile     Code = "extra-file"
	CodeMissingSchema Code = "missing-schema-key"
	CodeExtraSchema   Code = "extra-schema-key"
)

// Diagnostic is a structured, recoverable problem tied to one unit.
type Diagnostic struct {
	Path        string `json:"path"`
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Code        Code   `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// New builds a diagnostic for the given unit.
func New(u *unit.Unit, code Code, message, description string) Diagnostic {
	return Diagnostic{
		Path:        u.Path,
		Locale:      u.Locale,
		Name:        u.Name,
		Code:        code,
		Message:     message,
		Description: description,
	}
}

// String renders the diagnostic on a single line.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (%s/%s) [%s] %s: %s", d.Path, d.Locale, d.Name, d.Code, d.Message, d.Description)
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Add appends diagnostics that are not already present.
func (l *List) Add(ds ...Diagnostic) {
	for _, d := range ds {
		if !slices.Contains(*l, d) {
			*l = append(*l, d)
		}
	}
}

// Len returns the number of diagnostics.
func (l List) Len() int { return len(l) }

// Empty reports whether the list holds no diagnostics.
func (l List) Empty() bool { return len(l) == 0 }

// Codes returns the code of every diagnostic in order.
func (l List) Codes() []Code {
	codes := make([]Code, len(l))
	for i, d := range l {
		codes[i] = d.Code
	}
	return codes
}

// ForUnit returns the diagnostics attached to the given locale and unit name.
func (l List) ForUnit(locale, name string) List {
	var out List
	for _, d := range l {
		if d.Locale == locale && d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders diagnostics by locale, unit name, code and description.
func (l List) Sort() {
	slices.SortStableFunc(l, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Locale, b.Locale),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Description, b.Description),
		)
	})
}

// Err wraps a non-empty list into an *Error marked with kind.
// It returns nil for an empty list.
func (l List) Err(kind error) error {
	if l.Empty() {
		return nil
	}
	return &Error{Kind: kind, Diagnostics: slices.Clone(l)}
}

// Report renders every diagnostic as a human-readable block.
func (l List) Report() string {
	var b strings.Builder
	for i, d := range l {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %d) %s\n", i+1, d.Path)
		fmt.Fprintf(&b, "     unit:    %s/%s\n", d.Locale, d.Name)
		fmt.Fprintf(&b, "     error:   %s (%s)\n", d.Message, d.Code)
		fmt.Fprintf(&b, "     details: %s\n", d.Description)
	}
	return b.String()
}
