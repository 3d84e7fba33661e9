package detect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/NateKeola/memovault/internal/textutil"
)

// Priority ranks how soon a follow-up should happen.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Memo is the input record for follow-up detection. It mirrors the
// fields the storage collaborator provides; detection reads it and
// never writes back.
type Memo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Kind      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	Completed bool      `json:"completed"`
}

// FollowUp is one detected actionable commitment tied to a person.
// ContactID is a lowercase slug of the name, not a contact foreign key.
type FollowUp struct {
	ID          string    `json:"id"`
	MemoID      string    `json:"memoId"`
	Text        string    `json:"text"`
	Action      string    `json:"action"`
	ContactName string    `json:"contactName"`
	ContactID   string    `json:"contactId"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	Context     string    `json:"context"`
}

// Linkage tuning constants. The windows and connector list were tuned
// empirically against real memos; change them together, not piecemeal.
const (
	// proximityWindow is the distance (in characters) within which an
	// action phrase and a name are linked with no connector required.
	proximityWindow = 10
	// connectorWindow is the distance within which a connector word
	// between the two tokens establishes linkage.
	connectorWindow = 30
)

var connectorWords = []string{"with", "to", "for", "about", "regarding"}

// activityNouns are multi-word connector variants: "lunch with NAME"
// links regardless of where the action phrase sits.
var activityNouns = []string{"meeting", "lunch", "dinner", "coffee", "call"}

type actionPattern struct {
	phrase string
	family string
}

// actionCatalog is scanned in order per sentence; the first phrase
// found by substring match wins. Multi-word phrases sit in front of
// the bare verbs they extend.
var actionCatalog = []actionPattern{
	// communication
	{"follow up with", "communication"},
	{"follow up on", "communication"},
	{"get back to", "communication"},
	{"reach out to", "communication"},
	{"get in touch with", "communication"},
	{"touch base with", "communication"},
	{"check in with", "communication"},
	{"check in on", "communication"},
	{"check on", "communication"},
	{"respond to", "communication"},
	{"reply to", "communication"},
	{"call back", "communication"},
	{"call", "communication"},
	{"phone", "communication"},
	{"text", "communication"},
	{"message", "communication"},
	{"email", "communication"},

	// meeting and planning
	{"schedule meeting with", "meeting"},
	{"schedule a meeting with", "meeting"},
	{"set up meeting with", "meeting"},
	{"set up a meeting with", "meeting"},
	{"schedule a call with", "meeting"},
	{"set up a call with", "meeting"},
	{"book meeting with", "meeting"},
	{"arrange meeting with", "meeting"},
	{"plan meeting with", "meeting"},
	{"meet up with", "meeting"},
	{"meet with", "meeting"},
	{"plan lunch with", "meeting"},
	{"plan dinner with", "meeting"},
	{"grab lunch with", "meeting"},
	{"grab dinner with", "meeting"},
	{"grab coffee with", "meeting"},
	{"get lunch with", "meeting"},
	{"get dinner with", "meeting"},
	{"get coffee with", "meeting"},
	{"have lunch with", "meeting"},
	{"have dinner with", "meeting"},
	{"have coffee with", "meeting"},
	{"schedule", "meeting"},
	{"reschedule", "meeting"},
	{"book", "meeting"},
	{"arrange", "meeting"},

	// social
	{"catch up with", "social"},
	{"hang out with", "social"},
	{"plan lunch", "social"},
	{"plan dinner", "social"},
	{"invite", "social"},
	{"visit", "social"},
	{"host", "social"},

	// professional
	{"circle back with", "professional"},
	{"circle back on", "professional"},
	{"sync up with", "professional"},
	{"sync with", "professional"},
	{"coordinate with", "professional"},
	{"collaborate with", "professional"},
	{"partner with", "professional"},
	{"work with", "professional"},
	{"connect with", "professional"},
	{"network with", "professional"},
	{"interview", "professional"},
	{"onboard", "professional"},

	// request
	{"ask about", "request"},
	{"ask", "request"},
	{"request from", "request"},
	{"borrow from", "request"},
	{"pick up from", "request"},
	{"collect from", "request"},
	{"get from", "request"},
	{"remind", "request"},

	// follow-through
	{"go over with", "followthrough"},
	{"walk through with", "followthrough"},
	{"review with", "followthrough"},
	{"discuss with", "followthrough"},
	{"brainstorm with", "followthrough"},
	{"talk to", "followthrough"},
	{"talk with", "followthrough"},
	{"speak to", "followthrough"},
	{"speak with", "followthrough"},
	{"chat with", "followthrough"},
	{"debrief with", "followthrough"},
	{"finish with", "followthrough"},
	{"update", "followthrough"},
	{"brief", "followthrough"},

	// sending
	{"send to", "sending"},
	{"share with", "sending"},
	{"forward to", "sending"},
	{"deliver to", "sending"},
	{"drop off to", "sending"},
	{"mail to", "sending"},
	{"give to", "sending"},
	{"present to", "sending"},
	{"pitch to", "sending"},
	{"introduce to", "sending"},
	{"refer to", "sending"},
	{"recommend to", "sending"},
	{"send", "sending"},
	{"show", "sending"},

	// confirmation
	{"double check with", "confirmation"},
	{"confirm with", "confirmation"},
	{"verify with", "confirmation"},
	{"check with", "confirmation"},
	{"rsvp to", "confirmation"},
	{"cancel with", "confirmation"},
	{"postpone with", "confirmation"},
	{"remind about", "confirmation"},
	{"let know", "confirmation"},
	{"notify", "confirmation"},
	{"inform", "confirmation"},
	{"tell", "confirmation"},
	{"thank", "confirmation"},
	{"congratulate", "confirmation"},
	{"apologize to", "confirmation"},
	{"confirm", "confirmation"},
}

// followUpNamePatterns extracts candidate names from a clause, in
// order. The four person-detection families plus preposition-adjacent
// forms; group 1 always holds the candidate.
var followUpNamePatterns = []*regexp.Regexp{
	// name after a connector preposition ("with Sarah", "to John")
	regexp.MustCompile(`(?:(?i:with|to|for|from|about|regarding))\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`),
	// name before about/regarding ("John about the deck")
	regexp.MustCompile(`\b([A-Z][a-z]+)\s+(?:(?i:about|regarding))\b`),
	// communication verb adjacency
	regexp.MustCompile(`(?:(?i:call|text|email|phone|message|ask|tell|remind|invite|visit|thank|update|interview))\s+([A-Z][a-z]+)\b`),
	// titled names
	regexp.MustCompile(`\b(?:Dr|Mr|Mrs|Ms|Prof)\.?\s+([A-Z][a-z]+)\b`),
	// capitalized one- or two-word sequence
	regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`),
}

// DetectFollowUps scans open memos for actionable commitments tied to
// a person. Completed memos are skipped entirely. Per clause, the
// first action phrase from the catalog that links to a valid name
// emits exactly one follow-up; results are ordered newest first, ties
// broken by priority.
func DetectFollowUps(memos []Memo) []FollowUp {
	var followUps []FollowUp
	seen := make(map[string]int)

	for _, memo := range memos {
		if memo.Completed {
			continue
		}
		clean := textutil.Normalize(memo.Text)
		if clean == "" {
			continue
		}

		for _, clause := range textutil.SplitClauses(clean) {
			lower := strings.ToLower(clause)

			for _, action := range actionCatalog {
				if !strings.Contains(lower, action.phrase) {
					continue
				}
				name := firstLinkedName(clause, action.phrase)
				if name == "" {
					// Action matched but no name survived the linkage
					// check; later catalog entries may still produce one.
					continue
				}

				key := memo.ID + "|" + contactSlug(name) + "|" + action.phrase
				seen[key]++
				followUps = append(followUps, FollowUp{
					ID:          followUpID(memo.ID, name, action.phrase, seen[key]),
					MemoID:      memo.ID,
					Text:        capitalizeFirst(action.phrase) + " " + name,
					Action:      action.phrase,
					ContactName: name,
					ContactID:   contactSlug(name),
					Priority:    priorityOf(lower),
					CreatedAt:   memo.CreatedAt,
					Context:     clause,
				})
				break // one follow-up per clause
			}
		}
	}

	sort.SliceStable(followUps, func(i, j int) bool {
		if !followUps[i].CreatedAt.Equal(followUps[j].CreatedAt) {
			return followUps[i].CreatedAt.After(followUps[j].CreatedAt)
		}
		return priorityRank[followUps[i].Priority] > priorityRank[followUps[j].Priority]
	})
	return followUps
}

// firstLinkedName returns the first candidate name in the clause that
// passes validation and is contextually linked to the action phrase.
func firstLinkedName(clause, action string) string {
	for _, re := range followUpNamePatterns {
		for _, m := range re.FindAllStringSubmatch(clause, -1) {
			name := strings.TrimSpace(m[1])
			if !validFollowUpName(name) {
				continue
			}
			if actionLinksName(clause, action, name) {
				return name
			}
		}
	}
	return ""
}

func validFollowUpName(name string) bool {
	if !textutil.IsValidName(name, textutil.MaxNameLenFollowUp) {
		return false
	}
	for _, word := range strings.Fields(name) {
		if textutil.IsStopword(word) {
			return false
		}
	}
	return true
}

// actionLinksName decides whether the action phrase and the name are
// actually about each other: a known connector template, a connector
// word within connectorWindow chars, or plain adjacency within
// proximityWindow chars.
func actionLinksName(clause, action, name string) bool {
	lower := strings.ToLower(clause)
	lowerName := strings.ToLower(name)

	templates := []string{
		action + " " + lowerName,
		action + " with " + lowerName,
		action + " to " + lowerName,
		action + " for " + lowerName,
	}
	for _, noun := range activityNouns {
		templates = append(templates, noun+" with "+lowerName)
	}
	for _, tmpl := range templates {
		if strings.Contains(lower, tmpl) {
			return true
		}
	}

	actionIdx := strings.Index(lower, action)
	nameIdx := strings.Index(lower, lowerName)
	if actionIdx < 0 || nameIdx < 0 {
		return false
	}

	var between string
	var gap int
	if nameIdx >= actionIdx+len(action) {
		between = lower[actionIdx+len(action) : nameIdx]
		gap = len(between)
	} else if actionIdx >= nameIdx+len(lowerName) {
		between = lower[nameIdx+len(lowerName) : actionIdx]
		gap = len(between)
	} else {
		// Overlapping tokens count as adjacent.
		return true
	}

	if gap <= proximityWindow {
		return true
	}
	if gap <= connectorWindow {
		for _, word := range strings.Fields(between) {
			for _, c := range connectorWords {
				if word == c {
					return true
				}
			}
		}
	}
	return false
}

// priorityOf derives urgency from keywords in the clause.
func priorityOf(lower string) Priority {
	for _, w := range []string{"urgent", "asap", "immediately"} {
		if strings.Contains(lower, w) {
			return PriorityHigh
		}
	}
	for _, w := range []string{"soon", "today", "tomorrow"} {
		if strings.Contains(lower, w) {
			return PriorityMedium
		}
	}
	return PriorityLow
}

// followUpID composes a deterministic ID from the memo, name, action,
// and the occurrence number of that combination within the pass.
// Re-detecting the same memo yields the same IDs, so persisting the
// results again is a no-op for the store's INSERT OR IGNORE.
func followUpID(memoID, name, action string, seq int) string {
	return fmt.Sprintf("%s-%s-%s-%d",
		memoID,
		contactSlug(name),
		strings.ReplaceAll(action, " ", "-"),
		seq,
	)
}

// contactSlug lowercases and hyphenates a name. Not a foreign key.
func contactSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
