package grammar

import (
	"context"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
)

// File size constants for security validation.
const (
	// DefaultMaxFileSize is the maximum file size the checker will accept (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024

	// WarnFileSize is the threshold at which a warning is logged (1MB).
	WarnFileSize = 1 * 1024 * 1024

	// maxDiagnostics caps collected errors on heavily malformed input.
	maxDiagnostics = 50

	// maxWalkDepth prevents stack overflow on deeply nested trees.
	maxWalkDepth = 1000
)

// Diagnostic is one positioned syntax error.
type Diagnostic struct {
	// Line is the 1-indexed line number.
	Line int `json:"line"`

	// Column is the 0-indexed column.
	Column int `json:"column"`

	// Message describes the error.
	Message string `json:"message"`

	// Missing is true for missing-token errors (vs unexpected input).
	Missing bool `json:"missing"`

	// Context is the offending source snippet, when short enough to show.
	Context string `json:"context,omitempty"`
}

// CheckResult is the outcome of a syntax check.
type CheckResult struct {
	// Valid is true when no syntax errors were found.
	Valid bool `json:"valid"`

	// Language is the language that was checked.
	Language string `json:"language"`

	// Diagnostics lists the errors found (capped at 50).
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// CheckerOption configures a Checker instance.
type CheckerOption func(*Checker)

// WithMaxFileSize sets the maximum file size the checker will accept.
func WithMaxFileSize(bytes int64) CheckerOption {
	return func(c *Checker) {
		if bytes > 0 {
			c.maxFileSize = bytes
		}
	}
}

// Checker validates source syntax with tree-sitter.
//
// Description:
//
//	Checker parses source through the registry's grammars and reports
//	ERROR and MISSING nodes as positioned diagnostics. Each Check call
//	creates its own tree-sitter parser instance internally.
//
// Thread Safety:
//
//	Checker instances are safe for concurrent use. Multiple goroutines
//	may call Check simultaneously on the same Checker instance.
type Checker struct {
	registry    *Registry
	maxFileSize int64
}

// NewChecker creates a Checker over the given registry.
//
// Inputs:
//   - registry: Language registry; must be non-nil
//   - opts: Optional configuration (WithMaxFileSize)
//
// Outputs:
//   - *Checker: Configured checker, never nil
func NewChecker(registry *Registry, opts ...CheckerOption) *Checker {
	c := &Checker{
		registry:    registry,
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check parses content as the language claimed by path and reports
// syntax errors.
//
// Inputs:
//   - ctx: Cancellation context (tree-sitter parsing honors it)
//   - content: Source bytes
//   - path: File path used for language resolution and logging
//
// Outputs:
//   - *CheckResult: Diagnostics; nil on error
//   - error: ErrFileTooLarge, ErrNoGrammar, unknown-file, or parse failure
func (c *Checker) Check(ctx context.Context, content []byte, path string) (*CheckResult, error) {
	if int64(len(content)) > c.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(content), c.maxFileSize)
	}
	if int64(len(content)) > WarnFileSize {
		slog.Warn("checking large file", "path", path, "size", len(content))
	}

	lang, ok := c.registry.LanguageForFile(path)
	if !ok {
		return nil, fmt.Errorf("no registered language for file %q", path)
	}
	if !lang.HasGrammar() {
		return nil, fmt.Errorf("%w: %s", ErrNoGrammar, lang.Name)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang.Grammar())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	defer tree.Close()

	diags := make([]Diagnostic, 0)
	collectDiagnostics(tree.RootNode(), content, &diags, 0)

	return &CheckResult{
		Valid:       len(diags) == 0,
		Language:    lang.Name,
		Diagnostics: diags,
	}, nil
}

// collectDiagnostics traverses the tree and collects ERROR/MISSING nodes.
func collectDiagnostics(node *sitter.Node, content []byte, diags *[]Diagnostic, depth int) {
	if depth > maxWalkDepth || len(*diags) >= maxDiagnostics {
		return
	}

	if node.IsError() || node.IsMissing() {
		startPoint := node.StartPoint()
		start := node.StartByte()
		end := node.EndByte()
		if end > uint32(len(content)) {
			end = uint32(len(content))
		}

		contextStr := ""
		if end > start && end-start < 100 {
			contextStr = string(content[start:end])
		}

		msg := "syntax error"
		if node.IsMissing() {
			msg = fmt.Sprintf("missing %s", node.Type())
		} else if contextStr != "" {
			msg = fmt.Sprintf("unexpected: %s", truncate(contextStr, 50))
		}

		*diags = append(*diags, Diagnostic{
			Line:    int(startPoint.Row) + 1,
			Column:  int(startPoint.Column),
			Message: msg,
			Missing: node.IsMissing(),
			Context: contextStr,
		})
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectDiagnostics(node.Child(i), content, diags, depth+1)
	}
}

// truncate shortens a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
