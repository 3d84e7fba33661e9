// Package textutil provides the shared text primitives for the memo
// understanding pipeline: metadata tag stripping, whitespace
// normalization, sentence segmentation, and personal-name validation.
//
// Every detector (people, follow-ups, titles) operates on the output of
// this package, so the rules live here exactly once.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// Inline metadata tags embedded in memo text, e.g. "[Category: work]".
// The tag vocabulary is closed; anything else in brackets is memo
// content and must survive normalization.
const (
	TagContact  = "Contact"
	TagCategory = "Category"
	TagPriority = "priority"
	TagDue      = "due"
)

// metadataTagRE matches any known bracket-delimited metadata tag.
// Tag names are matched case-insensitively.
var metadataTagRE = regexp.MustCompile(
	`(?i)\[(?:` + TagContact + `|` + TagCategory + `|` + TagPriority + `|` + TagDue + `):[^\]]*\]`,
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// sentenceBoundaryRE splits on runs of sentence terminators.
var sentenceBoundaryRE = regexp.MustCompile(`[.!?]+`)

// Normalize strips metadata tags, collapses whitespace runs to a single
// space, and trims the ends. Pure; the input is never modified.
func Normalize(text string) string {
	clean := metadataTagRE.ReplaceAllString(text, " ")
	clean = whitespaceRE.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// SplitSentences splits text on runs of ". ! ?" and returns the
// trimmed, non-empty pieces in order.
func SplitSentences(text string) []string {
	parts := sentenceBoundaryRE.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// SplitClauses splits like SplitSentences but additionally breaks each
// sentence at a comma followed by a capitalized word. Follow-up
// detection uses this finer segmentation so that "Call John, Meet
// Sarah" yields two independent clauses.
func SplitClauses(text string) []string {
	var clauses []string
	for _, sentence := range SplitSentences(text) {
		clauses = append(clauses, splitOnCapitalComma(sentence)...)
	}
	return clauses
}

// splitOnCapitalComma breaks s at every ", X" where X is uppercase.
func splitOnCapitalComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		if j < len(s) && unicode.IsUpper(rune(s[j])) {
			piece := strings.TrimSpace(s[start:i])
			if piece != "" {
				out = append(out, piece)
			}
			start = j
			i = j - 1
		}
	}
	if piece := strings.TrimSpace(s[start:]); piece != "" {
		out = append(out, piece)
	}
	return out
}
