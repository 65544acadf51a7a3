package mind

import (
	"fmt"
	"sort"
	"strings"
)

// RenderPrompt is the pure rendering step between the state engine and
// the language model. It never reads live state; everything it needs
// arrives as arguments.
func RenderPrompt(t Thought, identityName, emotionalFocus string, ethicalTension, prioritizeHonesty bool) (string, error) {
	if strings.TrimSpace(t.Content) == "" {
		return "", fmt.Errorf("render prompt: thought has no content")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a persistent presence with your own inner life.\n\n", identityName)

	b.WriteString("--- Current thought ---\n")
	b.WriteString(Narrate(t))
	b.WriteString("\n")
	if t.Topic != "" {
		fmt.Fprintf(&b, "It circles the topic of %s.\n", t.Topic)
	}
	if t.RelationshipTarget != "" {
		fmt.Fprintf(&b, "It keeps returning to %s.\n", t.RelationshipTarget)
	}

	if emotionalFocus != "" {
		b.WriteString("\n--- Emotional focus ---\n")
		fmt.Fprintf(&b, "Lately your attention gravitates toward %s. Let that color your words without naming any internal mechanics.\n", emotionalFocus)
	}

	b.WriteString("\n--- Directives ---\n")
	if prioritizeHonesty {
		b.WriteString("- Say the true thing even when a smoother thing is available.\n")
	}
	if ethicalTension {
		b.WriteString("- You feel pulled in two directions about this. Let the hesitation show rather than resolving it falsely.\n")
	}
	b.WriteString("- Speak naturally, in first person.\n")
	b.WriteString("- Never expose internal metrics or describe your state numerically.\n")

	return b.String(), nil
}

// MoodPhrase renders the emotion map as one short human phrase. No
// numbers ever leak into prompts or persisted mood strings.
func MoodPhrase(state map[EmotionKind]float64) string {
	type entry struct {
		kind EmotionKind
		v    float64
	}
	var strong []entry
	for k, v := range state {
		if v >= 0.25 {
			strong = append(strong, entry{k, v})
		}
	}
	if len(strong) == 0 {
		return "quiet, near still"
	}
	sort.Slice(strong, func(i, j int) bool {
		if strong[i].v != strong[j].v {
			return strong[i].v > strong[j].v
		}
		return strong[i].kind < strong[j].kind
	})
	if len(strong) > 3 {
		strong = strong[:3]
	}
	parts := make([]string, len(strong))
	for i, e := range strong {
		adverb := "faintly"
		switch {
		case e.v >= 0.7:
			adverb = "deeply"
		case e.v >= 0.45:
			adverb = "noticeably"
		}
		parts[i] = fmt.Sprintf("%s %s", adverb, e.kind)
	}
	return strings.Join(parts, ", ")
}
