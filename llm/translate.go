package llm

import (
	"context"
	"fmt"
)

// Languages supported by the translation layer. Queries in any of these arrive
// in their native script (or Hinglish) and are answered in kind.
var SupportedLanguages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"ta": "Tamil",
	"te": "Telugu",
	"mr": "Marathi",
	"gu": "Gujarati",
	"bn": "Bengali",
	"kn": "Kannada",
	"ml": "Malayalam",
	"pa": "Punjabi",
	"or": "Odia",
	"as": "Assamese",
	"ur": "Urdu",
}

const detectSystemPrompt = `You are a language detection service for an Indian financial assistant.
Detect the language of the user's message. Treat Hindi written in Latin script (Hinglish) as "hi".
Respond with JSON only: {"language": "<ISO 639-1 code>", "english": "<the message translated to English>"}
If the message is already English, return {"language": "en", "english": "<the message unchanged>"}.`

// DetectAndTranslate identifies the query language and returns its English
// form for the agents. English input passes through unchanged.
func DetectAndTranslate(ctx context.Context, c Completer, text string) (lang, english string, err error) {
	var out struct {
		Language string `json:"language"`
		English  string `json:"english"`
	}
	if err := CompleteJSON(ctx, c, detectSystemPrompt, text, &out); err != nil {
		return "", "", err
	}
	if _, ok := SupportedLanguages[out.Language]; !ok {
		out.Language = "en"
	}
	if out.English == "" {
		out.English = text
	}
	return out.Language, out.English, nil
}

// TranslateResponse renders an English agent response into the user's language.
func TranslateResponse(ctx context.Context, c Completer, text, lang string) (string, error) {
	if lang == "" || lang == "en" {
		return text, nil
	}
	name, ok := SupportedLanguages[lang]
	if !ok {
		return text, nil
	}
	system := fmt.Sprintf(
		"Translate the following financial assistant response into %s. Keep numbers, currency symbols, and category names intact. Respond with the translation only.",
		name,
	)
	return Complete(ctx, c, system, text, 0.1)
}
