package grammar

import "errors"

// Sentinel errors for registry and syntax checking.
var (
	// ErrInvalidLanguage is returned when registering a nil or unnamed language.
	ErrInvalidLanguage = errors.New("language must be non-nil with a name")

	// ErrLanguageExists is returned when a language name is already registered.
	ErrLanguageExists = errors.New("language already registered")

	// ErrMappingConflict is returned when an extension or filename is already claimed.
	ErrMappingConflict = errors.New("file mapping already claimed by another language")

	// ErrNoGrammar is returned when syntax checking a language without a grammar.
	ErrNoGrammar = errors.New("no tree-sitter grammar for language")

	// ErrFileTooLarge is returned when input content exceeds the maximum size.
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)
