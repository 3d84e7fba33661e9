package detect

import (
	"strings"

	"github.com/NateKeola/memovault/internal/textutil"
)

// ContextType classifies the situation a person was mentioned in.
type ContextType string

const (
	ContextMeeting ContextType = "meeting"
	ContextCall    ContextType = "call"
	ContextEmail   ContextType = "email"
	ContextSocial  ContextType = "social"
	ContextWork    ContextType = "work"
	ContextFamily  ContextType = "family"
	ContextOther   ContextType = "other"
)

// Sentiment is a coarse tone label for a person's context sentences.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// RelationshipContext describes how a person showed up in a memo.
type RelationshipContext struct {
	Type      ContextType `json:"type"`
	Activity  string      `json:"activity"`
	Sentiment Sentiment   `json:"sentiment"`
}

// relationshipKeywords maps context keywords to a relationship label,
// checked in order. The word lists are empirically tuned; boundary
// cases ("teammate" could also read as friend) are resolved by list
// membership, nothing deeper.
var relationshipKeywords = []struct {
	words []string
	label string
}{
	{[]string{"colleague", "coworker", "co-worker", "teammate"}, "colleague"},
	{[]string{"boss", "manager", "supervisor"}, "manager"},
	{[]string{"client", "customer"}, "client"},
	{[]string{"mom", "mother", "dad", "father", "sister", "brother", "cousin", "aunt", "uncle", "grandma", "grandmother", "grandpa", "grandfather", "son", "daughter", "family"}, "family"},
	{[]string{"partner", "spouse", "wife", "husband", "fiance", "fiancee"}, "partner"},
	{[]string{"neighbor", "neighbour"}, "neighbor"},
	{[]string{"friend", "buddy", "pal"}, "friend"},
}

// contextTypeKeywords maps keyword families to a context type, checked
// in order; first family with a hit wins.
var contextTypeKeywords = []struct {
	words []string
	typ   ContextType
}{
	{[]string{"meeting", "meet", "appointment", "conference", "standup", "sync"}, ContextMeeting},
	{[]string{"call", "called", "phone", "rang", "voicemail"}, ContextCall},
	{[]string{"email", "emailed", "message", "messaged", "text", "texted"}, ContextEmail},
	{[]string{"lunch", "dinner", "coffee", "drinks", "party", "hang", "movie", "game", "trip"}, ContextSocial},
	{[]string{"project", "deadline", "report", "presentation", "client", "office", "interview", "proposal", "budget"}, ContextWork},
	{[]string{"family", "mom", "dad", "sister", "brother", "cousin", "aunt", "uncle", "wedding", "birthday"}, ContextFamily},
}

var positiveWords = []string{"great", "good", "happy", "excellent", "awesome", "fun", "love", "loved", "enjoyed", "nice", "wonderful", "amazing", "excited", "helpful"}

var negativeWords = []string{"bad", "angry", "upset", "problem", "issue", "difficult", "annoyed", "annoying", "frustrated", "frustrating", "worried", "terrible", "awful", "stressful", "argument"}

// activityVocabulary lists concrete activities, first match wins.
var activityVocabulary = []string{"meeting", "call", "lunch", "dinner", "coffee", "drinks", "email", "project", "interview", "presentation", "trip", "party", "appointment", "review"}

const defaultActivity = "interaction"

// ClassifyRelationship derives a coarse relationship label from the
// text surrounding a detected name. Total: unknown when nothing hits.
func ClassifyRelationship(context string) string {
	lower := strings.ToLower(context)
	for _, entry := range relationshipKeywords {
		for _, w := range entry.words {
			if containsWord(lower, w) {
				return entry.label
			}
		}
	}
	return "unknown"
}

// ContextFor builds a RelationshipContext for a person from the memo
// text: only sentences mentioning the name (case-insensitive) are
// considered. Total: always returns defaults rather than failing.
func ContextFor(text, personName string) RelationshipContext {
	rc := RelationshipContext{
		Type:      ContextOther,
		Activity:  defaultActivity,
		Sentiment: SentimentNeutral,
	}

	lowerName := strings.ToLower(strings.TrimSpace(personName))
	if lowerName == "" {
		return rc
	}

	var relevant []string
	for _, s := range textutil.SplitSentences(textutil.Normalize(text)) {
		if strings.Contains(strings.ToLower(s), lowerName) {
			relevant = append(relevant, s)
		}
	}
	if len(relevant) == 0 {
		return rc
	}
	lower := strings.ToLower(strings.Join(relevant, " "))

	for _, family := range contextTypeKeywords {
		for _, w := range family.words {
			if containsWord(lower, w) {
				rc.Type = family.typ
				break
			}
		}
		if rc.Type != ContextOther {
			break
		}
	}

	for _, w := range positiveWords {
		if containsWord(lower, w) {
			rc.Sentiment = SentimentPositive
			break
		}
	}
	if rc.Sentiment == SentimentNeutral {
		for _, w := range negativeWords {
			if containsWord(lower, w) {
				rc.Sentiment = SentimentNegative
				break
			}
		}
	}

	for _, activity := range activityVocabulary {
		if containsWord(lower, activity) {
			rc.Activity = activity
			break
		}
	}

	return rc
}

// containsWord reports whether lower contains w as a whole word.
func containsWord(lower, w string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], w)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordByte(lower[i-1])
		after := i+len(w) == len(lower) || !isWordByte(lower[i+len(w)])
		if before && after {
			return true
		}
		idx = i + len(w)
		if idx >= len(lower) {
			return false
		}
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
