// Package detect implements the rule-based understanding pipeline that
// runs over memo text: people mentions, relationship classification,
// and actionable follow-up commitments.
//
// The detectors are recall-oriented heuristics. They identify
// candidates meant for human confirmation, not authoritative facts, so
// thresholds and word lists deliberately favor catching a mention over
// rejecting an ambiguous one. All functions are pure and total: any
// string input yields a result, never an error.
package detect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/NateKeola/memovault/internal/textutil"
)

// MentionType names the syntactic pattern family that produced a
// person detection.
type MentionType string

const (
	MentionDirect     MentionType = "direct"
	MentionPossessive MentionType = "possessive"
	MentionAction     MentionType = "action"
	MentionReference  MentionType = "reference"
)

// Per-family confidence scores. Reference mentions ("my sister Kate")
// carry the strongest signal; bare capitalized words the weakest.
const (
	directConfidence     = 0.8
	possessiveConfidence = 0.9
	actionConfidence     = 0.85
	referenceConfidence  = 0.95

	// minPersonConfidence is the floor below which merged detections
	// are dropped from the result.
	minPersonConfidence = 0.6
)

// contextSeparator joins distinct context sentences of a merged person.
const contextSeparator = " | "

// Person is one detected personal name with its best supporting
// evidence. Name always satisfies textutil.IsValidName.
type Person struct {
	Name         string      `json:"name"`
	Context      string      `json:"context"`
	Relationship string      `json:"relationship,omitempty"`
	Confidence   float64     `json:"confidence"`
	MentionType  MentionType `json:"mentionType"`
}

// personPattern is one row of the detection table. Patterns run in
// order per sentence and their matches are unioned before merging.
type personPattern struct {
	re           *regexp.Regexp
	mention      MentionType
	confidence   float64
	nameGroup    int
	relationship bool // reference mentions also classify the relationship
}

const relationNouns = `friend|colleague|coworker|teammate|boss|manager|client|customer|neighbor|neighbour|partner|roommate|mentor|sister|brother|mom|mother|dad|father|cousin|aunt|uncle|grandma|grandmother|grandpa|grandfather|wife|husband|son|daughter`

const familyNouns = `mom|mother|dad|father|sister|brother|cousin|aunt|uncle|grandma|grandmother|grandpa|grandfather`

var personPatterns = []personPattern{
	// Direct mentions.
	{
		// Two- or three-word capitalized sequences ("John Smith").
		re:         regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2})\b`),
		mention:    MentionDirect,
		confidence: directConfidence,
		nameGroup:  1,
	},
	{
		// Single name after a communication verb ("talked to Sarah").
		re:         regexp.MustCompile(`(?:(?i:talked to|talking to|talk to|spoke with|spoke to|speaking with|met with|meet with|called|texted|messaged|emailed|contacted))\s+([A-Z][a-z]+)\b`),
		mention:    MentionDirect,
		confidence: directConfidence,
		nameGroup:  1,
	},
	{
		// Titled names ("Dr. Smith").
		re:         regexp.MustCompile(`\b(?:Dr|Mr|Mrs|Ms|Prof)\.?\s+([A-Z][a-z]+)\b`),
		mention:    MentionDirect,
		confidence: directConfidence,
		nameGroup:  1,
	},
	{
		// Any standalone capitalized word of three or more letters.
		re:         regexp.MustCompile(`\b([A-Z][a-z]{2,})\b`),
		mention:    MentionDirect,
		confidence: directConfidence,
		nameGroup:  1,
	},

	// Possessive mentions ("Sarah's project").
	{
		re:         regexp.MustCompile(`\b([A-Z][a-z]+)['’]s\s+(?:(?i:project|idea|meeting|call|email|report|work|task|plan|house|car|job|family))\b`),
		mention:    MentionPossessive,
		confidence: possessiveConfidence,
		nameGroup:  1,
	},

	// Action mentions: name adjacent to a speech/intent verb, or the
	// object of a "meeting/call/lunch with" phrase.
	{
		re:         regexp.MustCompile(`\b([A-Z][a-z]+)\s+(?:(?i:said|says|mentioned|told|asked|suggested|promised|agreed|wants|needs|will|would|should))\b`),
		mention:    MentionAction,
		confidence: actionConfidence,
		nameGroup:  1,
	},
	{
		// Name as the object of the verb ("she mentioned Sarah").
		re:         regexp.MustCompile(`(?:(?i:mentioned|told|asked|suggested|promised|reminded))\s+([A-Z][a-z]+)\b`),
		mention:    MentionAction,
		confidence: actionConfidence,
		nameGroup:  1,
	},
	{
		re:         regexp.MustCompile(`(?:(?i:meeting|call|lunch|dinner|coffee|drinks))\s+(?i:with)\s+([A-Z][a-z]+)\b`),
		mention:    MentionAction,
		confidence: actionConfidence,
		nameGroup:  1,
	},

	// Contextual/reference mentions carry a relationship noun.
	{
		// "my colleague Dave", "our neighbor Tom"
		re:           regexp.MustCompile(`(?:(?i:my|our))\s+(?:(?i:` + relationNouns + `))\s+([A-Z][a-z]+)\b`),
		mention:      MentionReference,
		confidence:   referenceConfidence,
		nameGroup:    1,
		relationship: true,
	},
	{
		// "Dave, my colleague"
		re:           regexp.MustCompile(`\b([A-Z][a-z]+),\s+(?:(?i:my|our))\s+(?:(?i:` + relationNouns + `))\b`),
		mention:      MentionReference,
		confidence:   referenceConfidence,
		nameGroup:    1,
		relationship: true,
	},
	{
		// "aunt Linda", "grandma Rose"
		re:           regexp.MustCompile(`(?:(?i:` + familyNouns + `))\s+([A-Z][a-z]+)\b`),
		mention:      MentionReference,
		confidence:   referenceConfidence,
		nameGroup:    1,
		relationship: true,
	},
}

// DetectPeople finds personal names in memo text. Raw detections from
// all pattern families are validated, then merged case-insensitively:
// the highest-confidence mention wins and distinct contexts are joined
// with " | ". Only persons above the confidence floor are returned,
// sorted by descending confidence.
func DetectPeople(text string) []Person {
	clean := textutil.Normalize(text)
	if clean == "" {
		return nil
	}

	merged := make(map[string]*Person)
	var order []string

	for _, sentence := range textutil.SplitSentences(clean) {
		for _, pat := range personPatterns {
			for _, m := range pat.re.FindAllStringSubmatch(sentence, -1) {
				name := strings.TrimSpace(m[pat.nameGroup])
				if !validPersonName(name) {
					continue
				}
				cand := Person{
					Name:        name,
					Context:     sentence,
					Confidence:  pat.confidence,
					MentionType: pat.mention,
				}
				if pat.relationship {
					cand.Relationship = ClassifyRelationship(sentence)
				}
				mergePerson(merged, &order, cand)
			}
		}
	}

	people := make([]Person, 0, len(order))
	for _, key := range order {
		if p := merged[key]; p.Confidence > minPersonConfidence {
			people = append(people, *p)
		}
	}
	sort.SliceStable(people, func(i, j int) bool {
		if people[i].Confidence != people[j].Confidence {
			return people[i].Confidence > people[j].Confidence
		}
		return people[i].Name < people[j].Name
	})
	return people
}

// validPersonName applies the shared validator to the whole candidate
// and additionally rejects multi-word candidates containing a stopword
// ("Call John" from the capitalized-sequence pattern).
func validPersonName(name string) bool {
	if !textutil.IsValidName(name, textutil.MaxNameLenPerson) {
		return false
	}
	for _, word := range strings.Fields(name) {
		if textutil.IsStopword(word) {
			return false
		}
	}
	return true
}

// mergePerson folds a new raw detection into the accumulator keyed by
// lowercase name.
func mergePerson(merged map[string]*Person, order *[]string, cand Person) {
	key := strings.ToLower(cand.Name)
	existing, ok := merged[key]
	if !ok {
		p := cand
		merged[key] = &p
		*order = append(*order, key)
		return
	}

	if !hasContext(existing.Context, cand.Context) {
		existing.Context += contextSeparator + cand.Context
	}
	if cand.Confidence > existing.Confidence {
		existing.Name = cand.Name
		existing.Confidence = cand.Confidence
		existing.MentionType = cand.MentionType
	}
	if existing.Relationship == "" && cand.Relationship != "" {
		existing.Relationship = cand.Relationship
	}
}

func hasContext(joined, context string) bool {
	for _, c := range strings.Split(joined, contextSeparator) {
		if c == context {
			return true
		}
	}
	return false
}
