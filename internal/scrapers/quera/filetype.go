package quera

import (
	"path/filepath"
	"strings"

	"queracli/lib/textutil"

	"github.com/antzucaro/matchr"
)

type FileType struct {
	// Key is the normalized display name, see textutil.NormalizeName.
	Key         string
	DisplayName string
	ServerCode  string
}

type FileTypeCatalog []FileType

func (c FileTypeCatalog) DisplayNames() []string {
	names := make([]string, len(c))
	for i, ft := range c {
		names[i] = ft.DisplayName
	}
	return names
}

// Lookup finds a file type by name, ignoring case and whitespace.
func (c FileTypeCatalog) Lookup(name string) (FileType, bool) {
	key := textutil.NormalizeName(name)
	if key == "" {
		return FileType{}, false
	}
	for _, ft := range c {
		if ft.Key == key {
			return ft, true
		}
	}
	return FileType{}, false
}

// lookupInferred is Lookup with a fallback to the single entry that is the
// name followed by a version, so "python3" still finds "Python 3.8".
func (c FileTypeCatalog) lookupInferred(name string) (FileType, bool) {
	ft, ok := c.Lookup(name)
	if ok {
		return ft, true
	}
	key := textutil.NormalizeName(name)
	var found []FileType
	for _, ft := range c {
		if !strings.HasPrefix(ft.Key, key) || len(ft.Key) == len(key) {
			continue
		}
		next := ft.Key[len(key)]
		if next == '.' || next == '(' || (next >= '0' && next <= '9') {
			found = append(found, ft)
		}
	}
	if len(found) != 1 {
		return FileType{}, false
	}
	return found[0], true
}

// Suggest returns the display name most similar to `name`.
func (c FileTypeCatalog) Suggest(name string) string {
	key := textutil.NormalizeName(name)
	if key == "" {
		return ""
	}
	best := ""
	bestScore := 0.7
	for _, ft := range c {
		score := matchr.JaroWinkler(key, ft.Key, false)
		if score > bestScore {
			best = ft.DisplayName
			bestScore = score
		}
	}
	return best
}

// language names by file extension, the names are looked up in the catalog
var extensionLanguages = map[string]string{
	".c":     "c",
	".cpp":   "c++",
	".cc":    "c++",
	".cxx":   "c++",
	".cs":    "c#",
	".java":  "java",
	".py":    "python3",
	".go":    "go",
	".js":    "javascript",
	".rs":    "rust",
	".kt":    "kotlin",
	".rb":    "ruby",
	".php":   "php",
	".hs":    "haskell",
	".pas":   "pascal",
	".swift": "swift",
	".scala": "scala",
	".txt":   "text",
	".zip":   "zip",
}

// InferLanguage returns the language name for the extension of filename.
func InferLanguage(filename string) (string, bool) {
	name, ok := extensionLanguages[strings.ToLower(filepath.Ext(filename))]
	return name, ok
}

// ResolveFileType picks the file type to submit with, the declared type
// wins over the one inferred from filename.
func ResolveFileType(catalog FileTypeCatalog, declared, filename string) (FileType, error) {
	if declared != "" {
		ft, ok := catalog.Lookup(declared)
		if !ok {
			return FileType{}, &InvalidFileTypeError{
				Requested:  declared,
				Valid:      catalog.DisplayNames(),
				Suggestion: catalog.Suggest(declared),
			}
		}
		return ft, nil
	}

	language, ok := InferLanguage(filename)
	if !ok {
		return FileType{}, &InvalidFileTypeError{
			Inferred: true,
			Valid:    catalog.DisplayNames(),
		}
	}
	ft, ok := catalog.lookupInferred(language)
	if !ok {
		return FileType{}, &InvalidFileTypeError{
			Requested:  language,
			Inferred:   true,
			Valid:      catalog.DisplayNames(),
			Suggestion: catalog.Suggest(language),
		}
	}
	return ft, nil
}
