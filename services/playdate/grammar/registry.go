// Package grammar registers the Tree-sitter grammars and file-type
// associations the Playdate toolchain needs inside the host editor.
//
// The registry is the single source of truth for "which language does this
// file belong to": the extension surface, the syntax checker, and the CLI
// all resolve files through it.
package grammar

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/lua"
)

// Well-known language names served by this extension.
const (
	// LanguageLua is Playdate game source (Lua 5.4 with SDK extensions).
	LanguageLua = "lua"

	// LanguageManifest is the pdxinfo bundle manifest.
	LanguageManifest = "pdxinfo"
)

// Language describes one registered language: its grammar, the files it
// claims, and editor-facing metadata.
type Language struct {
	// Name is the language identifier (e.g., "lua").
	Name string

	// Grammar returns the tree-sitter language, or nil when no grammar
	// exists (plain-text formats like pdxinfo).
	Grammar func() *sitter.Language

	// Extensions are file extensions with leading dot (e.g., ".lua").
	Extensions []string

	// Filenames are exact basenames claimed regardless of extension
	// (e.g., "pdxinfo").
	Filenames []string

	// LineComment is the line-comment token, empty if none.
	LineComment string
}

// HasGrammar reports whether a tree-sitter grammar is available.
func (l *Language) HasGrammar() bool {
	return l != nil && l.Grammar != nil
}

// Registry maps file extensions and basenames to registered languages.
//
// Thread Safety: Safe for concurrent reads after initialization.
// Register operations should only be done during setup.
type Registry struct {
	mu          sync.RWMutex
	byName      map[string]*Language
	byExtension map[string]*Language
	byFilename  map[string]*Language
}

// NewRegistry creates a registry seeded with the Playdate languages:
// Lua (.lua, tree-sitter grammar) and the pdxinfo manifest.
func NewRegistry() *Registry {
	r := &Registry{
		byName:      make(map[string]*Language),
		byExtension: make(map[string]*Language),
		byFilename:  make(map[string]*Language),
	}
	r.registerDefaults()
	return r
}

// registerDefaults adds the languages this extension ships.
func (r *Registry) registerDefaults() {
	r.mustRegister(&Language{
		Name:        LanguageLua,
		Grammar:     lua.GetLanguage,
		Extensions:  []string{".lua"},
		LineComment: "--",
	})
	r.mustRegister(&Language{
		Name:        LanguageManifest,
		Filenames:   []string{"pdxinfo"},
		LineComment: "#",
	})
}

// mustRegister panics on conflicts; used only for the built-in set.
func (r *Registry) mustRegister(lang *Language) {
	if err := r.Register(lang); err != nil {
		panic(err)
	}
}

// Register adds a language to the registry.
//
// Inputs:
//   - lang: Language to register. Name must be non-empty and unique;
//     extensions and filenames must not collide with existing entries.
//
// Outputs:
//   - error: Non-nil on name/extension/filename conflicts
func (r *Registry) Register(lang *Language) error {
	if lang == nil || lang.Name == "" {
		return ErrInvalidLanguage
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[lang.Name]; exists {
		return ErrLanguageExists
	}
	for _, ext := range lang.Extensions {
		if _, exists := r.byExtension[strings.ToLower(ext)]; exists {
			return ErrMappingConflict
		}
	}
	for _, name := range lang.Filenames {
		if _, exists := r.byFilename[name]; exists {
			return ErrMappingConflict
		}
	}

	r.byName[lang.Name] = lang
	for _, ext := range lang.Extensions {
		r.byExtension[strings.ToLower(ext)] = lang
	}
	for _, name := range lang.Filenames {
		r.byFilename[name] = lang
	}
	return nil
}

// Lookup returns a language by name.
func (r *Registry) Lookup(name string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.byName[name]
	return lang, ok
}

// LanguageForFile resolves the language a file belongs to.
//
// Exact basename matches win over extension matches, so "pdxinfo" is the
// manifest even though it has no extension.
//
// Inputs:
//   - path: File path (absolute or relative)
//
// Outputs:
//   - *Language: The matched language
//   - bool: False when no registered language claims the file
func (r *Registry) LanguageForFile(path string) (*Language, bool) {
	base := filepath.Base(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if lang, ok := r.byFilename[base]; ok {
		return lang, true
	}
	if lang, ok := r.byExtension[strings.ToLower(filepath.Ext(base))]; ok {
		return lang, true
	}
	return nil, false
}

// Languages returns all registered languages sorted by name.
func (r *Registry) Languages() []*Language {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Language, 0, len(r.byName))
	for _, lang := range r.byName {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
