package frontend

import (
	"sort"
	"strings"
)

// LanguageFeatures is a set of opt-in language changes.
type LanguageFeatures uint8

const (
	// FeatureV2PreviewSyntax rejects the `set` keyword and allows `x = e;`.
	FeatureV2PreviewSyntax LanguageFeatures = 1 << iota
)

var featureNames = map[string]LanguageFeatures{
	"v2-preview-syntax": FeatureV2PreviewSyntax,
}

func (f LanguageFeatures) Has(want LanguageFeatures) bool {
	return f&want == want
}

// Names returns the enabled feature names, sorted.
func (f LanguageFeatures) Names() []string {
	var out []string
	for name, bit := range featureNames {
		if f&bit != 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (f LanguageFeatures) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), ",")
}

// ParseLanguageFeatures maps feature names to a set. Unknown names are
// returned separately so callers can warn about them.
func ParseLanguageFeatures(names []string) (features LanguageFeatures, unknown []string) {
	for _, name := range names {
		bit, ok := featureNames[strings.TrimSpace(name)]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		features |= bit
	}
	return features, unknown
}
