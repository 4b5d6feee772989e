package glossary

import "github.com/mgpai22/cuecheck/internal/proofread"

// Known returns the spellings a list vouches for: the term itself, or the
// replacement when the term is a known misspelling.
func Known(terms []Term) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		v := t.Term
		if t.Replacement != "" {
			v = t.Replacement
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Corrections returns one correction for every term carrying a replacement.
func Corrections(terms []Term) []proofread.Correction {
	var out []proofread.Correction
	for _, t := range terms {
		if t.Replacement == "" {
			continue
		}
		out = append(out, proofread.Correction{From: t.Term, To: t.Replacement})
	}
	return out
}
