package detector

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// skipDirs are never walked; they hold dependencies or build output
var skipDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	"vendor":           true,
	".git":             true,
	"dist":             true,
	"build":            true,
	"coverage":         true,
}

// DetectLanguages counts the source files of each programming language below rootPath
func DetectLanguages(rootPath string) (map[string]int, error) {
	return detectLanguages(context.Background(), rootPath)
}

func detectLanguages(ctx context.Context, rootPath string) (map[string]int, error) {
	counts := make(map[string]int)
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootPath && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		lang := normalizeLanguageName(detectFileLanguage(path))
		if lang != "" && isProgrammingLanguage(lang) {
			counts[lang]++
		}
		return nil
	})
	return counts, err
}

// PrimaryLanguage returns the language with the most files. Ties go to the
// alphabetically first language.
func PrimaryLanguage(counts map[string]int) string {
	langs := make([]string, 0, len(counts))
	for lang := range counts {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	primary, best := "", 0
	for _, lang := range langs {
		if counts[lang] > best {
			primary, best = lang, counts[lang]
		}
	}
	return primary
}

// normalizeLanguageName folds linguist variants into one language
func normalizeLanguageName(lang string) string {
	switch lang {
	case "Go Module":
		return "Go"
	case "TSX":
		return "TypeScript"
	case "JSX":
		return "JavaScript"
	default:
		return lang
	}
}

// isProgrammingLanguage filters out configuration, markup and documentation
func isProgrammingLanguage(lang string) bool {
	if enry.GetLanguageType(lang) != enry.Programming {
		return false
	}
	switch lang {
	case "Dockerfile", "Makefile", "Shell":
		return false
	}
	return true
}

func detectFileLanguage(path string) string {
	lang, safe := enry.GetLanguageByExtension(path)
	if safe && lang != "" {
		return lang
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if enry.IsBinary(content) {
		return ""
	}
	return enry.GetLanguage(path, content)
}

// DetectLanguageForFile returns the linguist language of one file
func DetectLanguageForFile(filePath string) string {
	return normalizeLanguageName(detectFileLanguage(filePath))
}
