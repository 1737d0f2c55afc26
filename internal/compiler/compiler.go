// Package compiler runs the full pipeline over one document: parse,
// validate fragment argument usage, and rewrite the argument syntax away.
package compiler

import (
	"context"
	"time"

	binding "github.com/mjmahone/fragc/internal/binding"
	eventbus "github.com/mjmahone/fragc/internal/eventbus"
	events "github.com/mjmahone/fragc/internal/events"
	language "github.com/mjmahone/fragc/internal/language"
	rewrite "github.com/mjmahone/fragc/internal/rewrite"
	validation "github.com/mjmahone/fragc/internal/validation"
)

// Result is a successful compilation.
type Result struct {
	// Document is the rewritten document with fragment argument syntax
	// removed.
	Document *language.Document
	// Rendered is Document as GraphQL source.
	Rendered string
	// Resolved holds the bindings substituted into each fragment that
	// declared arguments.
	Resolved map[string]binding.Bindings
}

// CompileSource parses source and compiles it. name labels the document in
// errors and events, typically its file path.
func CompileSource(ctx context.Context, name, source string) (*Result, error) {
	start := time.Now()
	eventbus.Publish(ctx, events.CompileStart{Name: name})
	doc, err := language.ParseQueryFile(name, source)
	if err != nil {
		eventbus.Publish(ctx, events.CompileFinish{Name: name, Err: err, Duration: time.Since(start)})
		return nil, err
	}
	return compile(ctx, name, doc, start)
}

// Compile validates and rewrites an already parsed document.
func Compile(ctx context.Context, name string, doc *language.Document) (*Result, error) {
	start := time.Now()
	eventbus.Publish(ctx, events.CompileStart{Name: name})
	return compile(ctx, name, doc, start)
}

func compile(ctx context.Context, name string, doc *language.Document, start time.Time) (*Result, error) {
	if errs := validation.Validate(doc); errs != nil {
		eventbus.Publish(ctx, events.CompileFinish{
			Name:       name,
			Operations: len(doc.Operations),
			Fragments:  len(doc.Fragments),
			Violations: len(errs),
			Err:        errs,
			Duration:   time.Since(start),
		})
		return nil, errs
	}

	out, resolved := rewrite.Rewrite(doc)
	eventbus.Publish(ctx, events.CompileFinish{
		Name:       name,
		Operations: len(out.Operations),
		Fragments:  len(out.Fragments),
		Duration:   time.Since(start),
	})
	return &Result{
		Document: out,
		Rendered: language.Render(out),
		Resolved: resolved,
	}, nil
}
