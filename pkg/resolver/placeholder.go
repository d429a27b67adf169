package resolver

import (
	"regexp"
	"slices"
)

var (
	embeddingPattern = regexp.MustCompile(`\{\s*@([^{}\s]+)\s*\}`)
	parameterPattern = regexp.MustCompile(`\{\s*([A-Za-z_][A-Za-z0-9_.-]*)\s*\}`)
)

// ExtractParameters returns the {name} parameters of s in order of first
// appearance, without duplicates.
func ExtractParameters(s string) []string {
	var params []string
	for _, m := range parameterPattern.FindAllStringSubmatch(s, -1) {
		if !slices.Contains(params, m[1]) {
			params = append(params, m[1])
		}
	}
	return params
}

// ExtractEmbeddings returns the paths of every {@path} embedding in s in
// order of appearance.
func ExtractEmbeddings(s string) []string {
	var paths []string
	for _, m := range embeddingPattern.FindAllStringSubmatch(s, -1) {
		paths = append(paths, m[1])
	}
	return paths
}

// HasEmbeddings reports whether s contains at least one embedding.
func HasEmbeddings(s string) bool {
	return embeddingPattern.MatchString(s)
}

func mergeParameters(dst []string, src ...string) []string {
	for _, p := range src {
		if !slices.Contains(dst, p) {
			dst = append(dst, p)
		}
	}
	return dst
}
