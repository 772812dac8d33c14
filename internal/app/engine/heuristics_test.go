package engine

import "testing"

func TestPatternSetMatchesLiteralsAndRegex(t *testing.T) {
	ps := compilePatterns([]string{"i don't know", `\b(thanks|works now)\b`})

	cases := []struct {
		text string
		want bool
	}{
		{"I DON'T KNOW what happened", true},
		{"ok thanks!", true},
		{"it works now", true},
		{"thanksgiving plans", false}, // word boundary holds
		{"everything is fine", false},
		{"", false},
	}

	for _, c := range cases {
		if got := ps.matchAny(c.text); got != c.want {
			t.Errorf("matchAny(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestWordOverlap(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"order late", "your order is late", 1.0},
		{"alpha beta gamma delta", "alpha beta", 0.5},
		{"", "anything", 0.0},
		{"anything", "", 0.0},
		{"...", "!!!", 0.0}, // no alphanumeric tokens on either side
		{"Hello WORLD", "hello world", 1.0},
	}

	for _, c := range cases {
		if got := WordOverlap(c.a, c.b); got != c.want {
			t.Errorf("WordOverlap(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestDefaultLexiconCompiles(t *testing.T) {
	lex := DefaultLexicon().compile()

	if !lex.fallback.matchAny("Sorry, I'm not sure about that") {
		t.Error("expected fallback match")
	}
	if !lex.escalation.matchAny("get me a HUMAN") {
		t.Error("expected escalation match")
	}
	if lex.resolution.matchAny("no luck yet") {
		t.Error("unexpected resolution match")
	}
}
