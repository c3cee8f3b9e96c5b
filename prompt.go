package tajreba

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// PromptMode controls how a custom prompt combines with the built-in one.
type PromptMode string

// Prompt modes.
const (
	// PromptAppend adds the custom instructions after the built-in prompt.
	PromptAppend PromptMode = "append"
	// PromptReplace uses only the custom instructions.
	PromptReplace PromptMode = "replace"
)

// PromptTemplate builds the instruction given to the translation model for
// each chunk.
type PromptTemplate struct {
	SourceLang string
	TargetLang string

	// Custom holds user-provided instructions, combined per Mode.
	Custom string
	Mode   PromptMode
}

// defaultInstructions is the built-in translator prompt with the language
// names substituted in.
const defaultInstructions = "You are a professional %[1]s-%[2]s translator. " +
	"Translate the following text from %[1]s to %[2]s in a refined, sophisticated, and professional book-author style. " +
	"Ensure that your translation is clear and does not include any notes, disclaimers, or commentary about the original text's quality. " +
	"Replace numerical figures with their corresponding words in %[2]s, including large numbers, decimals, and scientific values. " +
	"Remove any citation numbers that appear at the end of sentences. " +
	"Translate all words, including scientific terms. " +
	"Only provide the translated text."

// DefaultPromptTemplate returns a template with the built-in instructions
// for the given language pair.
func DefaultPromptTemplate(sourceLang, targetLang string) PromptTemplate {
	return PromptTemplate{
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Mode:       PromptAppend,
	}
}

// Instructions returns the full instruction block without the text to
// translate.
func (t PromptTemplate) Instructions() string {
	src := LanguageName(t.SourceLang)
	tgt := LanguageName(t.TargetLang)
	base := fmt.Sprintf(defaultInstructions, src, tgt)

	custom := strings.TrimSpace(t.Custom)
	switch {
	case custom == "":
		return base
	case t.Mode == PromptReplace:
		return custom
	default:
		return base + "\n\n" + custom
	}
}

// Build returns the complete prompt for one chunk of text.
func (t PromptTemplate) Build(text string) string {
	tgt := LanguageName(t.TargetLang)
	return t.Instructions() + "\n\n" + text + fmt.Sprintf("\n\n%s Translation:", tgt)
}

// LanguageName returns the English display name for a BCP 47 language tag
// (e.g. "ar" -> "Arabic"). Unrecognized tags are returned as given, so
// callers may also pass plain language names.
func LanguageName(tag string) string {
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	name := display.English.Languages().Name(t)
	if name == "" {
		return tag
	}
	return name
}

// ParseLang validates a BCP 47 language tag.
// Returns EINVALID if the tag cannot be parsed.
func ParseLang(tag string) (language.Tag, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return language.Und, Errorf(EINVALID, "invalid language tag %q", tag)
	}
	return t, nil
}
