package tajreba

import (
	"regexp"
	"strings"
	"unicode"
)

// SanitizeOptions controls model output cleanup.
type SanitizeOptions struct {
	// FilterThoughts removes lines that look like leaked chain-of-thought
	// output ("Thinking...", "reasoning:" and similar).
	FilterThoughts bool

	// TargetScript, when set, extracts only runs of the given script
	// (plus any text between two runs of it). Useful when the target
	// language uses a distinct script, e.g. unicode.Arabic for Arabic
	// output from a model that echoes the English source.
	TargetScript *unicode.RangeTable
}

var (
	thoughtLineRe = regexp.MustCompile(`(?i)\b(thought|thinking|reasoning|analysis|chain[- ]of[- ]thought)\b`)
	thinkBlockRe  = regexp.MustCompile(`(?s)<think>.*?</think>`)
)

// SanitizeOutput cleans raw model output before it is shown to the user or
// written to the exported document.
func SanitizeOutput(text string, opts SanitizeOptions) string {
	if text == "" {
		return text
	}

	// Reasoning-capable models wrap their thinking in <think> tags.
	text = thinkBlockRe.ReplaceAllString(text, "")

	if opts.FilterThoughts {
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			if thoughtLineRe.MatchString(line) {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "thinking...", "thought for a moment", "thinking":
				continue
			}
			kept = append(kept, line)
		}
		text = strings.Join(kept, "\n")
	}

	text = strings.TrimSpace(text)

	if opts.TargetScript != nil {
		if extracted := extractScriptRuns(text, opts.TargetScript); extracted != "" {
			return extracted
		}
	}

	return text
}

// extractScriptRuns returns the lines of text that contain at least one rune
// of the given script, trimmed. Returns "" if no line matches, in which case
// the caller keeps the full text.
func extractScriptRuns(text string, script *unicode.RangeTable) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if containsScript(line, script) {
			kept = append(kept, strings.TrimSpace(line))
		}
	}
	return strings.Join(kept, "\n")
}

func containsScript(s string, script *unicode.RangeTable) bool {
	for _, r := range s {
		if unicode.Is(script, r) {
			return true
		}
	}
	return false
}

// ScriptForLang maps a language tag to the unicode script table used for
// output filtering. Returns nil for languages written in Latin or other
// scripts the filter does not discriminate.
func ScriptForLang(tag string) *unicode.RangeTable {
	base := strings.ToLower(tag)
	if i := strings.IndexByte(base, '-'); i > 0 {
		base = base[:i]
	}
	switch base {
	case "ar", "fa", "ur", "ps":
		return unicode.Arabic
	case "he", "yi":
		return unicode.Hebrew
	case "zh":
		return unicode.Han
	case "ja":
		return unicode.Hiragana
	case "ko":
		return unicode.Hangul
	case "ru", "uk", "bg", "sr":
		return unicode.Cyrillic
	case "hi", "mr", "ne":
		return unicode.Devanagari
	case "el":
		return unicode.Greek
	case "th":
		return unicode.Thai
	}
	return nil
}
