package emitter

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/transkit/pkg/compiler"
)

// ManifestPath is the path of the manifest file.
const ManifestPath = "manifest.json"

// Manifest describes one emitted build.
type Manifest struct {
	BuildID       uuid.UUID                      `json:"build_id"`
	CreatedAt     time.Time                      `json:"created_at"`
	PrimaryLocale string                         `json:"primary_locale"`
	Layout        Layout                         `json:"layout"`
	Locales       []string                       `json:"locales"`
	Files         []string                       `json:"files"`
	Checksums     map[string]string              `json:"checksums"`
	Parameters    map[string]map[string][]string `json:"parameters"`
}

// NewManifest describes res as written with the given layout and files.
func NewManifest(res *compiler.Result, layout Layout, files []File) Manifest {
	m := Manifest{
		BuildID:       res.ID,
		CreatedAt:     res.CreatedAt,
		PrimaryLocale: res.Primary,
		Layout:        layout,
		Locales:       res.LocaleNames(),
		Files:         make([]string, 0, len(files)),
		Checksums:     make(map[string]string, len(files)),
		Parameters:    make(map[string]map[string][]string, len(res.Locales)),
	}
	for _, f := range files {
		m.Files = append(m.Files, f.Path)
		m.Checksums[f.Path] = Hash(f.Data)
	}
	for _, locale := range m.Locales {
		m.Parameters[locale] = res.Parameters(locale)
	}
	return m
}
