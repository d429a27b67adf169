// Package source parses translation source documents into ordered unit trees.
//
// Four formats are supported out of the box, selected by file extension:
//
//   - YAML (.yaml, .yml) via gopkg.in/yaml.v3, key order preserved.
//   - JSON (.json) via encoding/json token streaming, key order preserved.
//   - TOML (.toml) via github.com/pelletier/go-toml/v2, key order read from
//     the document with its unstable parser.
//   - HCL (.hcl) via github.com/hashicorp/hcl/v2, attributes and blocks in
//     source order, leaves evaluated with go-cty.
//
// Every document must have a mapping at the top level. Numbers and booleans
// become their canonical string text; null values are rejected.
//
// # Usage
//
//	p := source.NewParserForFile("locales/en/home.yaml")
//	if p == nil {
//		// unsupported extension
//	}
//	data, err := p.Parse(ctx, content)
//
// # Error Handling
//
// Parse failures wrap one of the format sentinels (ErrFailedToParseYAML,
// ErrFailedToParseJSON, ErrFailedToParseTOML, ErrFailedToParseHCL) together
// with the underlying decoder error. A cancelled context yields
// ErrParsingCancelled.
package source
