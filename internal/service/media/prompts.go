package media

import (
	"fmt"
	"strings"

	"github.com/readease/readease-api/internal/models"
)

func transcriptionPrompt() string {
	return `Please provide a complete and accurate transcription of all spoken content in this audio/video file.

Format the response as follows:
- Include all dialogue and speech
- Use proper punctuation and paragraph breaks
- Indicate speaker changes if multiple speakers are present (e.g., Speaker 1:, Speaker 2:)
- Do not include descriptions of visual elements or background sounds, only transcribe the spoken words
- If there are multiple languages, transcribe each in their original language

Transcription:`
}

func translationPrompt(targetLanguage string) string {
	return fmt.Sprintf(`Please provide a complete translation of all spoken content in this audio/video file to %[1]s.

Requirements:
- Translate all dialogue and speech accurately
- Maintain the meaning and context
- Use natural, fluent %[1]s
- Use proper punctuation and paragraph breaks
- Indicate speaker changes if multiple speakers are present (e.g., Speaker 1:, Speaker 2:)
- Do not translate background sounds or visual descriptions, only spoken words

Translation:`, targetLanguage)
}

var summaryPrompts = map[string]string{
	"general":       "Please watch this video and provide both a complete transcription and a concise comprehensive summary.",
	"bullet_points": "Please watch this video and provide both a complete transcription and a bullet-point summary highlighting the main topics.",
	"key_insights":  "Please watch this video and provide both a complete transcription and extract the key insights and important conclusions.",
	"executive":     "Please watch this video and provide both a complete transcription and an executive summary for decision-makers.",
	"detailed":      "Please watch this video and provide both a complete transcription and a detailed summary preserving important context.",
	"action_items":  "Please watch this video and provide both a complete transcription and identify any action items or next steps.",
}

func summarizationPrompt(summaryType string, opts models.ProcessOptions) string {
	base, ok := summaryPrompts[summaryType]
	if !ok {
		base = summaryPrompts["general"]
	}

	var extra []string
	if maxLength := optNumber(opts, "max_length"); maxLength > 0 {
		extra = append(extra, fmt.Sprintf("Keep the summary under %d words.", maxLength))
	}
	if focus := optStrings(opts, "focus_areas"); len(focus) > 0 {
		extra = append(extra, fmt.Sprintf("Focus particularly on these areas: %s", strings.Join(focus, ", ")))
	}
	if audience := optString(opts, "target_audience", ""); audience != "" {
		extra = append(extra, fmt.Sprintf("Tailor the summary for: %s", audience))
	}

	prompt := base
	if len(extra) > 0 {
		prompt += " " + strings.Join(extra, " ")
	}

	prompt += `

Please format your response as follows:
TRANSCRIPTION:
[Complete transcription here]

SUMMARY:
[Summary here]`

	return prompt
}

// splitTranscriptAndSummary extracts the TRANSCRIPTION and SUMMARY
// sections of a summarization response. Falls back to a line scan when
// the provider does not follow the requested layout.
func splitTranscriptAndSummary(text string) (string, string) {
	if parts := strings.SplitN(text, "SUMMARY:", 2); len(parts) == 2 {
		transcript := strings.TrimSpace(strings.Replace(parts[0], "TRANSCRIPTION:", "", 1))
		return transcript, strings.TrimSpace(parts[1])
	}

	var transcriptLines, summaryLines []string
	section := "transcript"
	for _, line := range strings.Split(text, "\n") {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "SUMMARY") {
			section = "summary"
			continue
		}
		if strings.Contains(upper, "TRANSCRIPTION") {
			section = "transcript"
			continue
		}
		if section == "transcript" {
			transcriptLines = append(transcriptLines, line)
		} else {
			summaryLines = append(summaryLines, line)
		}
	}

	return strings.TrimSpace(strings.Join(transcriptLines, "\n")),
		strings.TrimSpace(strings.Join(summaryLines, "\n"))
}

// optNumber reads a numeric option. JSON decoding yields float64.
func optNumber(opts models.ProcessOptions, key string) int {
	if opts == nil {
		return 0
	}
	switch v := opts[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func optStrings(opts models.ProcessOptions, key string) []string {
	if opts == nil {
		return nil
	}
	raw, ok := opts[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
