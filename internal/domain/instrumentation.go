package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BundleSuffix ends every compiled bundle file name
const BundleSuffix = ".bundle.js"

// Instrumentation is one generated source file. Strategies fill FileName and
// Content; the generator assigns the paths when it exports the file.
type Instrumentation struct {
	FileName        string `json:"file_name"`
	Content         string `json:"-"`
	Path            string `json:"path,omitempty"`
	ParentPath      string `json:"parent_path,omitempty"`
	SrcPath         string `json:"src_path,omitempty"`
	ProjectRootPath string `json:"project_root_path,omitempty"`
}

// IsUtility reports whether the file belongs under src/utils. Utility files
// are imported by the main files rather than by the index.
func (i Instrumentation) IsUtility() bool {
	return strings.Contains(i.FileName, "Util")
}

// ModuleName is the file name without its extension
func (i Instrumentation) ModuleName() string {
	if idx := strings.LastIndex(i.FileName, "."); idx > 0 {
		return i.FileName[:idx]
	}
	return i.FileName
}

// InstrumentationBundle describes the compiled artifact of a generation run
type InstrumentationBundle struct {
	FileName        string            `json:"file_name"`
	Files           []Instrumentation `json:"files"`
	Path            string            `json:"path,omitempty"`
	ParentPath      string            `json:"parent_path,omitempty"`
	ProjectRootPath string            `json:"project_root_path,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// NewInstrumentationBundle creates an empty bundle descriptor for app, named
// after the normalized app name and createdAt.
func NewInstrumentationBundle(app ApplicationMetadata, createdAt time.Time) *InstrumentationBundle {
	return &InstrumentationBundle{
		FileName:  BundleFileName(app.NormalizedName(), createdAt),
		CreatedAt: createdAt,
	}
}

// AddFiles appends generated files to the bundle
func (b *InstrumentationBundle) AddFiles(files ...Instrumentation) {
	b.Files = append(b.Files, files...)
}

// BundleTimestamp renders t as an ISO-8601 UTC timestamp with punctuation
// stripped, e.g. 20261017T093012345Z.
func BundleTimestamp(t time.Time) string {
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer("-", "", ":", "", ".", "").Replace(iso)
}

// BundleFileName builds <normalizedName>_<timestamp>.bundle.js
func BundleFileName(normalizedName string, t time.Time) string {
	return fmt.Sprintf("%s_%s%s", normalizedName, BundleTimestamp(t), BundleSuffix)
}

var bundleFileNamePattern = regexp.MustCompile(`^([a-z0-9]+(?:-[a-z0-9]+)*)_(\d{8}T\d{9}Z)\.bundle\.js$`)

// ParseBundleFileName splits a bundle file name into the normalized app name
// and the creation time it encodes.
func ParseBundleFileName(name string) (string, time.Time, error) {
	m := bundleFileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", time.Time{}, fmt.Errorf("not a bundle file name: %q", name)
	}
	ts, err := time.Parse("20060102T150405.000Z", m[2][:15]+"."+m[2][15:18]+"Z")
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid bundle timestamp %q: %w", m[2], err)
	}
	return m[1], ts, nil
}
