package generation

import (
	"encoding/json"
	"strings"

	"design-memory-be/internal/entity"
)

const suggestionFormat = `{
  "suggestions": [
    {"title": "string", "notes": "string"}
  ],
  "image_prompts": ["string"]
}`

const agentFormat = `{
  "reply": "string",
  "design_options": [
    {"title": "string", "description": "string", "image_prompt": "string"}
  ],
  "version_action": {
    "type": "create_version | revise_version | save_final | none",
    "notes": "string",
    "parent_version_id": "uuid or null"
  },
  "preference_hints": [
    {"key": "string", "value": "string"}
  ]
}`

// BuildSuggestionPrompt renders the one-shot suggestion template.
func BuildSuggestionPrompt(snapshot *entity.ContextSnapshot, message string) string {
	s := snapshotOrEmpty(snapshot)

	var b strings.Builder
	writeLines(&b,
		"You are an interior design assistant.",
		"Return JSON only. No markdown or extra text.",
		"",
		"Preferences:",
		toJSON(s.Preferences),
		"",
		"Target project:",
		toJSON(s.TargetProject),
		"",
		"Reference project summary:",
		toJSON(s.ReferenceSummary),
		"",
		"Requested change:",
		message,
		"",
		"Output JSON format:",
		suggestionFormat,
	)
	return b.String()
}

// BuildAgentPrompt renders the conversational agent template. The whole
// snapshot is included so the model can see recent feedback on the target.
func BuildAgentPrompt(snapshot *entity.ContextSnapshot, message string) string {
	s := snapshotOrEmpty(snapshot)

	var b strings.Builder
	writeLines(&b,
		"You are an interior design assistant working inside a design project.",
		"Return JSON only. No markdown or extra text.",
		"",
		"Rules:",
		"- Use create_version when the user asks for a new direction or change.",
		"- Use revise_version when the user tweaks an existing version; set parent_version_id if you know it.",
		"- Use save_final when the user wants to keep the current design.",
		"- Use none when you are only answering a question.",
		"- Give one design option per image you want rendered.",
		"",
		"Preferences:",
		toJSON(s.Preferences),
		"",
		"Target project:",
		toJSON(s.TargetProject),
		"",
		"Recent feedback on the target project:",
		toJSON(s.TargetRecentEvents),
		"",
		"Reference project summary:",
		toJSON(s.ReferenceSummary),
		"",
		"User message:",
		message,
		"",
		"Output JSON format:",
		agentFormat,
	)
	return b.String()
}

func snapshotOrEmpty(snapshot *entity.ContextSnapshot) entity.ContextSnapshot {
	if snapshot == nil {
		return entity.EmptyContextSnapshot()
	}
	return *snapshot
}

func toJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

func writeLines(b *strings.Builder, lines ...string) {
	b.WriteString(strings.Join(lines, "\n"))
}
