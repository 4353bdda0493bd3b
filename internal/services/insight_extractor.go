package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	FallbackSummary    = "This dream reflects emotional experiences shaped by recent thoughts and events."
	FallbackReflection = "Reflect on how your current emotions and recent experiences may be influencing your dreams."

	minNarrativeLength = 20
	moodNotSpecified   = "Not specified"
)

// ExtractedInterpretation holds whatever could be pulled out of the model
// output. Fields keep their decoded JSON type so the sanitizer can judge them.
type ExtractedInterpretation struct {
	Summary    any
	KeySymbols any
	Reflection any
}

type SanitizedInterpretation struct {
	Summary    string
	KeySymbols []string
	Reflection string
}

// RE2 has no lookahead, so the field boundary is consumed instead of asserted.
// Output cut off by the token limit can end right after a field's closing quote.
var (
	summaryFieldRe    = regexp.MustCompile(`(?i)"summary"\s*:\s*"([\s\S]*?)"(?:,\s*"|\s*}|,?\s*$)`)
	reflectionFieldRe = regexp.MustCompile(`(?i)"reflection"\s*:\s*"([\s\S]*?)"(?:,\s*"|\s*}|,?\s*$)`)
	keySymbolsFieldRe = regexp.MustCompile(`(?i)"key_symbols"\s*:\s*\[([\s\S]*?)\]`)
)

func BuildInterpretationPrompt(content string, mood *string) string {
	moodLabel := moodNotSpecified
	if mood != nil && strings.TrimSpace(*mood) != "" {
		moodLabel = *mood
	}

	var prompt strings.Builder
	prompt.WriteString("You are an empathetic dream analyst.\n\n")
	prompt.WriteString("Analyze the dream carefully and generate a personalized interpretation.\n")
	prompt.WriteString("Use the dream's emotional tone, events, and wording to guide your analysis.\n")
	prompt.WriteString("If the dream is short, infer meaning from emotion and context.\n")
	prompt.WriteString("Do NOT repeat generic phrases across different dreams.\n\n")
	prompt.WriteString("Respond ONLY with valid JSON.\n")
	prompt.WriteString("Ensure the JSON is fully complete and properly closed.\n")
	prompt.WriteString("No markdown. No explanations. No backticks.\n\n")
	prompt.WriteString(fmt.Sprintf("Dream:\n\"\"\"\n%s\n\"\"\"\n\n", content))
	prompt.WriteString(fmt.Sprintf("Mood: %s\n\n", moodLabel))
	prompt.WriteString("Return JSON in this exact structure:\n")
	prompt.WriteString(`{
  "summary": "4-6 sentence interpretation that is specific to this dream",
  "key_symbols": ["3-5 meaningful symbolic keywords inferred from the dream"],
  "reflection": "4-6 sentence reflective guidance connected to the dream's emotion and real life"
}`)
	return prompt.String()
}

// ExtractInterpretation never fails: a strict parse of the cleaned text is
// tried first, then each field is salvaged from the raw text on its own.
func ExtractInterpretation(raw string) ExtractedInterpretation {
	// Decoded into a map so keys match exactly; struct decoding would also
	// accept "SUMMARY" or "Reflection".
	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &parsed); err == nil && parsed != nil {
		return ExtractedInterpretation{
			Summary:    parsed["summary"],
			KeySymbols: parsed["key_symbols"],
			Reflection: parsed["reflection"],
		}
	}

	out := ExtractedInterpretation{}
	if v, ok := matchStringField(summaryFieldRe, raw); ok {
		out.Summary = v
	}
	if v, ok := matchStringField(reflectionFieldRe, raw); ok {
		out.Reflection = v
	}
	if m := keySymbolsFieldRe.FindStringSubmatch(raw); m != nil {
		symbols := make([]any, 0)
		for _, token := range strings.Split(m[1], ",") {
			if token = stripQuotesAndSpace(token); token != "" {
				symbols = append(symbols, token)
			}
		}
		out.KeySymbols = symbols
	}
	return out
}

func cleanModelJSON(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if start := strings.Index(cleaned, "{"); start != -1 {
		cleaned = cleaned[start:]
	}
	if !strings.HasSuffix(cleaned, "}") {
		cleaned += "}"
	}
	return cleaned
}

func matchStringField(re *regexp.Regexp, raw string) (string, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func stripQuotesAndSpace(token string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, token)
}

func SanitizeInterpretation(in ExtractedInterpretation) SanitizedInterpretation {
	return SanitizedInterpretation{
		Summary:    narrativeOr(in.Summary, FallbackSummary),
		KeySymbols: symbolList(in.KeySymbols),
		Reflection: narrativeOr(in.Reflection, FallbackReflection),
	}
}

func narrativeOr(v any, fallback string) string {
	s, ok := v.(string)
	if !ok || utf8.RuneCountInString(strings.TrimSpace(s)) <= minNarrativeLength {
		return fallback
	}
	return s
}

// symbolList keeps the order of a decoded JSON array. Scalars are rendered as
// text; null and nested values are dropped.
func symbolList(v any) []string {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case float64, bool:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}
