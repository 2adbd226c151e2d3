package prompts

import "strings"

// languageInstructions maps a language code to the instruction line added to
// generation prompts so free-text output matches the user's UI language.
var languageInstructions = map[string]string{
	"vi": "Write all output in Vietnamese.",
	"en": "Write all output in English.",
}

// LanguageInstruction returns the prompt line for the user's preferred
// language. Unknown or empty codes default to English.
func LanguageInstruction(preferredLanguage string) string {
	code := strings.ToLower(strings.TrimSpace(preferredLanguage))
	if len(code) > 10 {
		code = code[:10]
	}
	if instruction, ok := languageInstructions[code]; ok {
		return instruction
	}
	return languageInstructions["en"]
}
