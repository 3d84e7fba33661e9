// Package title synthesizes short human-readable titles for memos.
//
// The heuristic fallback path is pure and deterministic: the same
// (text, kind) always yields the same title, so memos can be re-titled
// idempotently. An optional LLM summarization step may run first; any
// failure, timeout, or unusable response silently falls through to the
// heuristic.
package title

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/NateKeola/memovault/internal/llm"
	"github.com/NateKeola/memovault/internal/textutil"
)

// Kind is the memo flavor; each kind has its own extraction rules.
type Kind string

const (
	KindTask Kind = "task"
	KindNote Kind = "note"
	KindIdea Kind = "idea"
)

// ParseKind normalizes a kind string, defaulting to note.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "task":
		return KindTask
	case "idea":
		return KindIdea
	default:
		return KindNote
	}
}

const (
	// MaxTitleLen bounds every title this package returns.
	MaxTitleLen = 50
	// extractMaxLen bounds the per-kind extraction branch, ellipsis
	// included.
	extractMaxLen = 35
	// passthroughLen: cleaned text at or under this length is already
	// its own title.
	passthroughLen = 25
	// minRemoteLen: shorter inputs never warrant a remote call.
	minRemoteLen = 10

	ellipsis = "..."

	// reproductionGuard rejects a keyword phrase that reproduces most
	// of the sentence it was meant to summarize.
	reproductionGuard = 0.8

	defaultRemoteTimeout = 10 * time.Second
)

var kindDefaults = map[Kind]string{
	KindTask: "New Task",
	KindNote: "New Note",
	KindIdea: "New Idea",
}

const remoteSystemPrompt = `You title short personal memos. Reply with a single concise title of at most 50 characters. No quotes, no punctuation at the end, no explanation.`

// Synthesizer generates titles, optionally consulting an LLM provider
// before falling back to the deterministic heuristic.
type Synthesizer struct {
	provider llm.Provider
	cache    *Cache
	timeout  time.Duration
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithProvider enables remote summarization.
func WithProvider(p llm.Provider) Option {
	return func(s *Synthesizer) { s.provider = p }
}

// WithCache attaches a caller-owned title cache.
func WithCache(c *Cache) Option {
	return func(s *Synthesizer) { s.cache = c }
}

// WithTimeout bounds the remote summarization call.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSynthesizer creates a Synthesizer. With no options it is fully
// offline and deterministic.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{timeout: defaultRemoteTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces a title for memo text. Inputs under ten characters
// skip the remote step entirely. The result is always at most
// MaxTitleLen characters and never empty.
func (s *Synthesizer) Generate(ctx context.Context, text string, kind Kind) string {
	if s.cache != nil {
		if cached, ok := s.cache.Get(kind, text); ok {
			return cached
		}
	}

	var result string
	if s.provider != nil && utf8.RuneCountInString(text) >= minRemoteLen {
		if remote, ok := s.remoteTitle(ctx, text); ok {
			result = remote
		}
	}
	if result == "" {
		result = Fallback(text, kind)
	}

	if s.cache != nil {
		s.cache.Put(kind, text, result)
	}
	return result
}

// remoteTitle asks the provider for a title. Any error or unusable
// response (empty, oversized, or echoing the input) reports ok=false.
func (s *Synthesizer) remoteTitle(ctx context.Context, text string) (string, bool) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.provider.Complete(callCtx, text, llm.CompletionOpts{
		Temperature: 0.2,
		MaxTokens:   64,
		System:      remoteSystemPrompt,
	})
	if err != nil {
		return "", false
	}

	response = strings.TrimSpace(strings.Trim(strings.TrimSpace(response), `"`))
	if response == "" || utf8.RuneCountInString(response) > MaxTitleLen {
		return "", false
	}
	if response == strings.TrimSpace(text) {
		return "", false
	}
	return response, true
}

// Ordered per-kind extraction tables. First match wins; group 1 holds
// the clause that becomes the title.
var taskPatterns = []*regexp.Regexp{
	// Strip leading filler: "I need to call John" -> "call John".
	regexp.MustCompile(`(?i)^(?:i\s+)?(?:need\s+to|have\s+to|must|should|remember\s+to)\s+(.+)$`),
	// Isolate the clause starting at a known action verb.
	regexp.MustCompile(`(?i)\b((?:call|email|buy|get|schedule|book|meet|contact|finish|complete|send|review|update|prepare|organize|plan|create|write|read)\b.*)$`),
}

// trailingTimeRE strips a trailing time qualifier off a task clause.
var trailingTimeRE = regexp.MustCompile(`(?i)\s+(?:today|tomorrow|tonight|this\s+week|next\s+week|this\s+month|soon|later|asap)$`)

var ideaPrefixRE = regexp.MustCompile(`(?i)^(?:what\s+if|how\s+about|maybe\s+we\s+could|we\s+should|i\s+think|i\s+believe)\s+(.+)$`)

var ideaBeforeNounRE = regexp.MustCompile(`(?i)^(.+?)\s+(?:idea|concept|thought|notion)\b`)

var notePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:meeting|discussion|call)\s+about\s+(.+)$`),
	regexp.MustCompile(`(?i)\b(?:about|regarding)\s+(.+)$`),
	regexp.MustCompile(`(?i)^(.+?)\s+(?:happened|occurred|took\s+place)\b`),
}

// Fallback derives a title heuristically. Pure and deterministic for a
// fixed (text, kind).
func Fallback(text string, kind Kind) string {
	clean := textutil.Normalize(text)
	if clean == "" {
		return kindDefaults[kind]
	}
	if utf8.RuneCountInString(clean) <= passthroughLen {
		return clean
	}

	sentences := textutil.SplitSentences(clean)
	if len(sentences) == 0 {
		return kindDefaults[kind]
	}
	first := sentences[0]

	if extracted, ok := extractByKind(first, kind); ok {
		return extracted
	}
	return extractMeaningfulWords(first, kind)
}

func extractByKind(sentence string, kind Kind) (string, bool) {
	switch kind {
	case KindTask:
		for _, re := range taskPatterns {
			if m := re.FindStringSubmatch(sentence); m != nil {
				clause := trailingTimeRE.ReplaceAllString(strings.TrimSpace(m[1]), "")
				if clause == "" {
					continue
				}
				return truncateTitle(capitalizeFirst(clause), extractMaxLen), true
			}
		}

	case KindIdea:
		clause := sentence
		stripped := false
		for {
			m := ideaPrefixRE.FindStringSubmatch(clause)
			if m == nil {
				break
			}
			clause = strings.TrimSpace(m[1])
			stripped = true
		}
		if !stripped {
			if m := ideaBeforeNounRE.FindStringSubmatch(sentence); m != nil {
				clause = strings.TrimSpace(m[1])
				stripped = true
			}
		}
		if stripped && clause != "" {
			lower := strings.ToLower(clause)
			if !strings.Contains(lower, "idea") && !strings.Contains(lower, "concept") {
				clause += " concept"
			}
			return truncateTitle(capitalizeFirst(clause), extractMaxLen), true
		}

	case KindNote:
		for _, re := range notePatterns {
			if m := re.FindStringSubmatch(sentence); m != nil {
				clause := strings.TrimSpace(m[1])
				if clause == "" {
					continue
				}
				return truncateTitle(capitalizeFirst(clause), extractMaxLen), true
			}
		}
	}
	return "", false
}

// leadingFiller words are dropped from the front of a sentence before
// keyword collection.
var leadingFiller = wordSet("i", "the", "a", "an", "my", "our", "we", "you", "so", "um", "uh", "okay", "well", "just", "like", "really", "today", "yesterday", "note", "reminder", "that")

// skipWords are articles and prepositions skipped during collection.
var skipWords = wordSet("the", "a", "an", "of", "to", "in", "on", "at", "for", "with", "and", "or", "but", "is", "was", "are", "were", "be", "been", "am", "it", "that", "this")

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// extractMeaningfulWords is the last-resort summarizer: a few content
// words from the first sentence, guarded against reproducing it.
func extractMeaningfulWords(sentence string, kind Kind) string {
	limit := 3
	if kind == KindIdea {
		limit = 2
	}

	words := strings.Fields(sentence)
	i := 0
	for i < len(words) {
		if _, filler := leadingFiller[strings.ToLower(words[i])]; !filler {
			break
		}
		i++
	}

	var content []string
	for ; i < len(words) && len(content) < limit; i++ {
		if _, skip := skipWords[strings.ToLower(words[i])]; skip {
			continue
		}
		content = append(content, words[i])
	}

	phrase := strings.Join(content, " ")
	if float64(len(phrase)) > reproductionGuard*float64(len(sentence)) && len(words) >= 2 {
		phrase = words[0] + " " + words[1] + ellipsis
	}
	phrase = capitalizeFirst(strings.TrimSpace(phrase))
	if phrase == "" {
		return kindDefaults[kind]
	}
	return truncateTitle(phrase, extractMaxLen)
}

// truncateTitle cuts s to max characters total, ellipsis included,
// preferring a word boundary.
func truncateTitle(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	budget := max - len(ellipsis)
	runes := []rune(s)
	cut := budget
	for j := budget; j > 0; j-- {
		if runes[j] == ' ' {
			cut = j
			break
		}
	}
	return strings.TrimSpace(string(runes[:cut])) + ellipsis
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}
