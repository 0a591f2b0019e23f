package types

import "fmt"

// Location identifies where a link was found in the document corpus.
// It is provenance metadata only: the engine carries it through unchanged
// for report attribution and never inspects it for verification logic.
type Location struct {
	// File is the path of the source document.
	File string `json:"file" yaml:"file"`
	// Line is the 1-based line number of the link, 0 when unknown.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
	// Column is the 1-based column of the link, 0 when unknown.
	Column int `json:"column,omitempty" yaml:"column,omitempty"`
}

// String renders the location in the conventional file:line:col form,
// omitting trailing zero components.
func (l Location) String() string {
	switch {
	case l.Line == 0:
		return l.File
	case l.Column == 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
}
