// Package validation checks fragment argument usage in an executable
// document. All checks report every violation they find in one pass; a
// document with a nil validation result is safe to rewrite.
package validation

import (
	"fmt"

	language "github.com/mjmahone/fragc/internal/language"
)

// Kind classifies a violation for tooling consumers.
type Kind string

const (
	UnusedFragmentArgument          Kind = "UnusedFragmentArgument"
	UndefinedFragmentVariable       Kind = "UndefinedFragmentVariable"
	MissingRequiredFragmentArgument Kind = "MissingRequiredFragmentArgument"
	ConflictingFragmentArguments    Kind = "ConflictingFragmentArguments"
	UnknownFragment                 Kind = "UnknownFragment"
	UnknownFragmentArgument         Kind = "UnknownFragmentArgument"
	DuplicateFragmentArgument       Kind = "DuplicateFragmentArgument"
	FragmentCycle                   Kind = "FragmentCycle"
)

type Violation struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type ValidationError []*Violation

func (e ValidationError) Error() string {
	msg := "violations found:\n"
	for _, v := range e {
		line := "- " + v.Message
		if v.Line > 0 {
			line += fmt.Sprintf(" %s:%d:%d", v.File, v.Line, v.Column)
		}
		msg += line + "\n"
	}
	return msg
}

// Core primitive used by all template helpers.
func violationWithPosition(kind Kind, message string, pos *language.Position) *Violation {
	v := &Violation{Kind: kind, Message: message}
	if pos != nil {
		v.Line = pos.Line
		v.Column = pos.Column
		if pos.Src != nil {
			v.File = pos.Src.Name
		}
	}
	return v
}
