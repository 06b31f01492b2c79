// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package host

// =============================================================================
// CODE LABELS
// =============================================================================

// Range is a half-open [Start, End) byte range.
type Range struct {
	// Start is the inclusive start offset.
	Start int `json:"start"`

	// End is the exclusive end offset.
	End int `json:"end"`
}

// Len returns the range length.
func (r Range) Len() int {
	return r.End - r.Start
}

// CodeLabelSpan is one rendered segment of a CodeLabel. Exactly one of
// CodeRange or Literal is set: a code range indexes into the label's Code
// text and is syntax-highlighted by the host, a literal carries its own
// text and optional highlight name.
type CodeLabelSpan struct {
	// CodeRange indexes into CodeLabel.Code when non-nil.
	CodeRange *Range `json:"code_range,omitempty"`

	// Literal carries standalone text when non-nil.
	Literal *CodeLabelLiteral `json:"literal,omitempty"`
}

// CodeLabelLiteral is a literal span with an optional highlight name.
type CodeLabelLiteral struct {
	// Text is the rendered text.
	Text string `json:"text"`

	// Highlight is the host highlight name, e.g. "property". Empty means
	// unhighlighted.
	Highlight string `json:"highlight,omitempty"`
}

// SpanCodeRange builds a span over [start, end) of the label's code.
func SpanCodeRange(start, end int) CodeLabelSpan {
	return CodeLabelSpan{CodeRange: &Range{Start: start, End: end}}
}

// SpanLiteral builds a literal span.
func SpanLiteral(text, highlight string) CodeLabelSpan {
	return CodeLabelSpan{Literal: &CodeLabelLiteral{Text: text, Highlight: highlight}}
}

// CodeLabel is how the host renders a completion or symbol entry.
type CodeLabel struct {
	// Code is the text the code-range spans index into.
	Code string `json:"code"`

	// Spans are the rendered segments in order.
	Spans []CodeLabelSpan `json:"spans"`

	// FilterRange is the substring fuzzy matching runs against.
	FilterRange Range `json:"filter_range"`
}

// =============================================================================
// LSP ITEMS
// =============================================================================

// CompletionKind is the LSP CompletionItemKind value the host forwards.
type CompletionKind int

// LSP 3.17 CompletionItemKind values the extension cares about.
const (
	CompletionKindText     CompletionKind = 1
	CompletionKindMethod   CompletionKind = 2
	CompletionKindFunction CompletionKind = 3
	CompletionKindField    CompletionKind = 5
	CompletionKindVariable CompletionKind = 6
)

// Completion is a completion item as the host forwards it.
type Completion struct {
	// Label is the completion label, e.g. "getSize(self)".
	Label string `json:"label"`

	// Kind is the LSP completion kind, 0 when the server sent none.
	Kind CompletionKind `json:"kind,omitempty"`
}

// SymbolKind is the LSP SymbolKind value the host forwards.
type SymbolKind int

// LSP 3.17 SymbolKind values the extension cares about.
const (
	SymbolKindMethod   SymbolKind = 6
	SymbolKindField    SymbolKind = 8
	SymbolKindFunction SymbolKind = 12
	SymbolKindVariable SymbolKind = 13
)

// Symbol is a workspace symbol as the host forwards it.
type Symbol struct {
	// Name is the symbol name.
	Name string `json:"name"`

	// Kind is the LSP symbol kind.
	Kind SymbolKind `json:"kind"`
}
