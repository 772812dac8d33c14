package engine

import "regexp"

// Lexicon holds the phrase lists driving the lexical heuristics. Each
// entry may be a literal phrase or a regular expression; matching is
// always case-insensitive. The default lists are English; swap the
// whole lexicon to tune or localize the heuristics.
type Lexicon struct {
	// Fallback phrases mark "I don't know"-type assistant replies.
	Fallback []string

	// Empathy phrases in assistant replies.
	Empathy []string

	// CompletenessHints indicate a full answer was given.
	CompletenessHints []string

	// InfoRequests indicate the assistant deferred by asking for more
	// information instead of answering.
	InfoRequests []string

	// Assertive words signal a confident factual reply (used by the
	// accuracy heuristic).
	Assertive []string

	// Resolution phrases in user turns indicate the problem was solved.
	Resolution []string

	// Escalation phrases in user turns request a human hand-off.
	Escalation []string
}

// DefaultLexicon returns the built-in English phrase lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Fallback: []string{"i don't know", "can't help", "sorry", "i'm not sure"},

		Empathy: []string{"sorry", "i understand", "i can imagine",
			"that must be", "i'm here to help", "feel free"},

		CompletenessHints: []string{"here's", "here is", "in summary", "steps to",
			"follow these", "you can", "solution", "fixed", "done"},

		InfoRequests: []string{`\b(can you|could you|please provide|please share)\b`},

		Assertive: []string{"is", "are", "was", "has been", "will",
			"was shipped", "arrive", "delivered", "confirmed"},

		Resolution: []string{`\b(thanks|thank you|that helps|resolved|fixed|works now)\b`},

		Escalation: []string{`\b(human|agent|someone else|supervisor|manager|escalat)\b`},
	}
}

// compiledLexicon is the Lexicon with every pattern compiled once, so a
// single Engine never re-compiles per call.
type compiledLexicon struct {
	fallback          patternSet
	empathy           patternSet
	completenessHints patternSet
	infoRequests      patternSet
	assertive         patternSet
	resolution        patternSet
	escalation        patternSet
}

func (l Lexicon) compile() compiledLexicon {
	return compiledLexicon{
		fallback:          compilePatterns(l.Fallback),
		empathy:           compilePatterns(l.Empathy),
		completenessHints: compilePatterns(l.CompletenessHints),
		infoRequests:      compilePatterns(l.InfoRequests),
		assertive:         compilePatterns(l.Assertive),
		resolution:        compilePatterns(l.Resolution),
		escalation:        compilePatterns(l.Escalation),
	}
}

type patternSet []*regexp.Regexp

func compilePatterns(patterns []string) patternSet {
	out := make(patternSet, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile("(?i)"+p))
	}
	return out
}

// matchAny reports whether any pattern matches text.
func (ps patternSet) matchAny(text string) bool {
	for _, re := range ps {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
