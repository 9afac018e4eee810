package pharmacy

import "strings"

var nameReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"ü", "u", "ñ", "n",
)

// normalizeName lowercases, strips accents, and collapses whitespace so
// "Acetaminofén  Pediátrico" and "acetaminofen pediatrico" compare equal.
func normalizeName(name string) string {
	s := nameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(strings.Fields(s), " ")
}

// nameSimilarity scores how likely two normalized product names refer to
// the same item: 1.0 for an exact match, 0.8 when one contains the other,
// otherwise the fraction of shared tokens.
func nameSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}
	shared := 0
	for _, t := range tokensA {
		if setB[t] {
			shared++
		}
	}
	longer := len(tokensA)
	if len(tokensB) > longer {
		longer = len(tokensB)
	}
	return float64(shared) / float64(longer)
}
