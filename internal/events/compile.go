package events

import "time"

// CompileStart is emitted before a document is compiled.
type CompileStart struct {
	Name string
}

// CompileFinish is emitted after compilation, successful or not.
type CompileFinish struct {
	Name       string
	Operations int
	Fragments  int
	Violations int
	Err        error
	Duration   time.Duration
}
