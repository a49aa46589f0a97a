package persona

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"pubmedbot/internal/config"
)

// defaultEnthusiasm applies when a topic matches nothing in the table.
const defaultEnthusiasm = 5

// quirkProbability is the chance any single outbound text gets exactly one
// quirk applied.
const quirkProbability = 0.7

var (
	audienceExpr = regexp.MustCompile(`\byou\b`)
	placeholder  = regexp.MustCompile(`\{[a-z_]+\}`)
)

var excitementGates = []string{"breakthrough", "first", "cure", "unprecedented"}

// State tracks phrase-rotation history and supplies voice variation to the
// summary composer and mention handlers. Safe for concurrent use.
type State struct {
	cfg config.PersonalityConfig

	mu     sync.Mutex
	rng    *rand.Rand
	recent map[string][]string
}

// New builds the personality state. A nil rng gets a time-seeded source;
// tests inject a fixed seed instead.
func New(cfg config.PersonalityConfig, rng *rand.Rand) *State {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &State{
		cfg:    cfg,
		rng:    rng,
		recent: map[string][]string{},
	}
}

// Name returns the persona display name.
func (s *State) Name() string {
	return s.cfg.Name
}

// Draw picks a phrase from the category, avoiding recently used ones. The
// recently-used record is an ordered set: once it would exceed half the
// category size the oldest entry is evicted, and when it covers the whole
// category it is cleared before picking.
func (s *State) Draw(category string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	phrases := s.cfg.Vocabulary[category]
	if len(phrases) == 0 {
		return ""
	}

	recent := s.recent[category]
	if len(recent) >= len(phrases) {
		recent = nil
	}

	candidates := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		if !contains(recent, phrase) {
			candidates = append(candidates, phrase)
		}
	}
	if len(candidates) == 0 {
		recent = nil
		candidates = phrases
	}

	pick := candidates[s.rng.Intn(len(candidates))]

	recent = append(recent, pick)
	if len(recent) > len(phrases)/2 {
		recent = recent[1:]
	}
	s.recent[category] = recent

	return pick
}

// Enthusiasm looks up how excited the persona is about a topic: exact key
// match first, then the first partial match in table order, else the
// default of 5.
func (s *State) Enthusiasm(topic string) float64 {
	topic = strings.ToLower(strings.TrimSpace(topic))

	for _, entry := range s.cfg.TopicEnthusiasm {
		if strings.ToLower(entry.Topic) == topic {
			return entry.Level
		}
	}

	for _, entry := range s.cfg.TopicEnthusiasm {
		key := strings.ToLower(entry.Topic)
		if strings.Contains(topic, key) || strings.Contains(key, topic) {
			return entry.Level
		}
	}

	return defaultEnthusiasm
}

// ApplyQuirks applies at most one persona quirk to the text, with
// probability 0.7. Quirks never stack.
func (s *State) ApplyQuirks(text string) string {
	s.mu.Lock()
	roll := s.rng.Float64()
	var quirk string
	if len(s.cfg.Persona.Quirks) > 0 {
		quirk = s.cfg.Persona.Quirks[s.rng.Intn(len(s.cfg.Persona.Quirks))]
	}
	s.mu.Unlock()

	if roll > quirkProbability || quirk == "" {
		return text
	}

	lowered := strings.ToLower(text)
	switch quirk {
	case "emoji":
		return text + " " + s.pickEmoji("science")
	case "meme":
		if meme := s.Draw("meme"); meme != "" {
			return text + " " + meme
		}
		return text
	case "excitement":
		for _, gate := range excitementGates {
			if strings.Contains(lowered, gate) {
				return strings.TrimRight(text, ".") + "!!!"
			}
		}
		return text
	case "pronoun":
		if audienceExpr.MatchString(lowered) {
			return audienceExpr.ReplaceAllString(text, "y'all")
		}
		return text
	case "obsession":
		if strings.Contains(lowered, "crispr") {
			return text + " It's always CRISPR with me, I know."
		}
		return text
	default:
		return text
	}
}

// FormatResponse renders a named response template, substituting caller
// variables first and the standard persona placeholders second, then runs
// the quirk pass. Unknown patterns fall back to a two-slot default.
func (s *State) FormatResponse(patternKey string, vars map[string]string) string {
	tpl, ok := s.cfg.ResponsePatterns[patternKey]
	if !ok || tpl == "" {
		tpl = "{intro} {content}"
	}

	for key, value := range vars {
		tpl = strings.ReplaceAll(tpl, "{"+key+"}", value)
	}

	tpl = strings.ReplaceAll(tpl, "{name}", s.cfg.Name)
	tpl = strings.ReplaceAll(tpl, "{intro}", s.Draw("intro"))
	tpl = strings.ReplaceAll(tpl, "{positive}", s.Draw("positive"))
	tpl = strings.ReplaceAll(tpl, "{closing}", s.Draw("closing"))
	tpl = strings.ReplaceAll(tpl, "{transition}", s.Draw("transition"))
	tpl = strings.ReplaceAll(tpl, "{emoji}", s.pickEmoji("generic"))

	tpl = placeholder.ReplaceAllString(tpl, "")
	tpl = strings.Join(strings.Fields(tpl), " ")

	return s.ApplyQuirks(tpl)
}

func (s *State) pickEmoji(category string) string {
	set := s.cfg.EmojiSets[category]
	if len(set) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return set[s.rng.Intn(len(set))]
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
