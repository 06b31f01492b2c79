// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extension

import (
	"strings"

	"github.com/AleutianAI/playdate-ext/services/playdate/host"
)

// LabelForCompletion formats a completion item for the host.
//
// Functions and methods keep their full label as highlighted code with the
// filter range cut at the opening parenthesis, so "getSize(self)" matches
// on "getSize". Fields render as a property-highlighted literal. Every
// other kind returns nil and the host falls back to its default rendering.
func (e *Extension) LabelForCompletion(serverID string, completion host.Completion) *host.CodeLabel {
	switch completion.Kind {
	case host.CompletionKindMethod, host.CompletionKindFunction:
		nameLen := len(completion.Label)
		if paren := strings.IndexByte(completion.Label, '('); paren >= 0 {
			nameLen = paren
		}
		return &host.CodeLabel{
			Code:        completion.Label,
			Spans:       []host.CodeLabelSpan{host.SpanCodeRange(0, len(completion.Label))},
			FilterRange: host.Range{Start: 0, End: nameLen},
		}

	case host.CompletionKindField:
		return &host.CodeLabel{
			Spans:       []host.CodeLabelSpan{host.SpanLiteral(completion.Label, "property")},
			FilterRange: host.Range{Start: 0, End: len(completion.Label)},
		}

	default:
		return nil
	}
}

// LabelForSymbol formats a workspace symbol for the host.
//
// The name is wrapped in a synthetic assignment so the host highlights
// it in context; methods get call parentheses appended. Only the name
// itself is spanned and filtered on.
func (e *Extension) LabelForSymbol(serverID string, symbol host.Symbol) *host.CodeLabel {
	const prefix = "let a = "
	suffix := ""
	if symbol.Kind == host.SymbolKindMethod {
		suffix = "()"
	}

	code := prefix + symbol.Name + suffix
	return &host.CodeLabel{
		Code: code,
		Spans: []host.CodeLabelSpan{
			host.SpanCodeRange(len(prefix), len(code)-len(suffix)),
		},
		FilterRange: host.Range{Start: 0, End: len(symbol.Name)},
	}
}
