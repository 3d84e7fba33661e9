package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Name length limits. Person detection tolerates longer names than
// follow-up detection; both call the same validator with their limit.
const (
	MinNameLen         = 2
	MaxNameLenPerson   = 30
	MaxNameLenFollowUp = 20
)

// nameStoplist holds capitalized tokens that are never personal names:
// pronouns, question words, weekdays, months, relative-time words, and
// the generic nouns that show up capitalized at sentence starts.
// Lookup is lowercase.
var nameStoplist = map[string]struct{}{}

func init() {
	words := []string{
		// pronouns and question words
		"i", "me", "my", "mine", "you", "your", "yours", "he", "him",
		"his", "she", "her", "hers", "it", "its", "we", "us", "our",
		"ours", "they", "them", "their", "theirs", "this", "that",
		"these", "those", "who", "whom", "whose", "what", "which",
		"when", "where", "why", "how",
		// weekdays
		"monday", "tuesday", "wednesday", "thursday", "friday",
		"saturday", "sunday",
		// months
		"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december",
		// relative time
		"today", "tomorrow", "yesterday", "tonight", "morning",
		"afternoon", "evening", "night", "week", "weekend", "month",
		"year", "next", "last", "soon", "later", "now",
		// generic nouns and fillers that start sentences capitalized
		"home", "work", "office", "meeting", "plan", "call", "email",
		"phone", "text", "message", "project", "task", "note", "idea",
		"thing", "stuff", "lunch", "dinner", "coffee", "breakfast",
		"school", "house", "car", "team", "boss", "client", "doctor",
		"dentist", "gym", "store", "bank", "the", "a", "an", "and",
		"but", "or", "if", "then", "so", "also", "just", "very",
		"really", "okay", "ok", "yes", "no", "not", "hi", "hello",
		"hey", "thanks", "please", "remember", "need", "needs",
		"should", "must", "have", "has", "had", "will", "would",
		"could", "can", "might", "shall", "get", "got", "make", "made",
		"take", "took", "going", "gonna", "want", "wants", "new",
		"everyone", "everything", "someone", "something", "anyone",
		"nothing", "maybe", "perhaps", "after", "before", "about",
		// verbs that start sentences capitalized
		"talked", "talking", "talk", "spoke", "speaking", "speak",
		"met", "meet", "called", "calling", "emailed", "texted",
		"messaged", "contacted", "visited", "visit", "went", "said",
		"asked", "ask", "told", "tell", "saw", "see", "came", "come",
		"mentioned", "discussed", "discuss", "scheduled", "schedule",
		"reschedule", "planned", "finished", "finish", "started",
		"sent", "send", "checked", "check", "bought", "buy", "invite",
		"update", "show", "book", "host", "review", "interview",
		"confirm", "notify", "remind", "arrange", "borrow", "collect",
		"deliver", "forward", "share", "introduce", "recommend",
		"pitch", "present", "cancel", "postpone", "verify", "thank",
		"congratulate", "apologize", "sync", "coordinate",
		"collaborate", "connect", "network", "brainstorm", "chat",
		"debrief", "brief", "inform",
	}
	for _, w := range words {
		nameStoplist[w] = struct{}{}
	}
}

// IsValidName reports whether token is plausibly a personal name:
// length within [MinNameLen, maxLen], uppercase first letter, and not
// in the shared stoplist. All detectors must route name candidates
// through this single function.
func IsValidName(token string, maxLen int) bool {
	token = strings.TrimSpace(token)
	n := utf8.RuneCountInString(token)
	if n < MinNameLen || n > maxLen {
		return false
	}
	first, _ := utf8.DecodeRuneInString(token)
	if !unicode.IsUpper(first) {
		return false
	}
	_, stopped := nameStoplist[strings.ToLower(token)]
	return !stopped
}

// IsStopword reports whether a single word (any case) is in the name
// stoplist. Exposed for detectors that pre-filter multi-word
// candidates word by word.
func IsStopword(word string) bool {
	_, ok := nameStoplist[strings.ToLower(strings.TrimSpace(word))]
	return ok
}
