package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"design-memory-be/internal/entity"

	"github.com/google/uuid"
)

// ParseAgentResponse reads an agent reply. reply and design_options are
// required and may not be null. An absent version_action means none, but a
// present one must be an object; an unknown action type becomes none. A
// preference_hints value that is not a list is dropped.
func ParseAgentResponse(text string) (*AgentResponse, error) {
	fields, err := decodeObject(text)
	if err != nil {
		return nil, err
	}

	out := &AgentResponse{
		DesignOptions:   []DesignOption{},
		VersionAction:   VersionAction{Type: ActionNone},
		PreferenceHints: []entity.PreferenceHint{},
	}

	if err := requireString(fields, "reply", &out.Reply); err != nil {
		return nil, malformed(err.Error())
	}

	rawOptions, ok := fields["design_options"]
	if !ok {
		return nil, malformed("missing design_options")
	}
	if out.DesignOptions, err = parseOptions(rawOptions); err != nil {
		return nil, err
	}

	if rawAction, ok := fields["version_action"]; ok {
		if out.VersionAction, err = parseAction(rawAction); err != nil {
			return nil, err
		}
	}

	if rawHints, ok := fields["preference_hints"]; ok {
		out.PreferenceHints = parseHints(rawHints)
	}

	return out, nil
}

// ParseSuggestionResponse reads a suggestion reply. Both lists are required.
func ParseSuggestionResponse(text string) (*SuggestionResponse, error) {
	fields, err := decodeObject(text)
	if err != nil {
		return nil, err
	}

	out := &SuggestionResponse{}
	rawSuggestions, ok := fields["suggestions"]
	if !ok {
		return nil, malformed("missing suggestions")
	}
	if err := json.Unmarshal(rawSuggestions, &out.Suggestions); err != nil || out.Suggestions == nil {
		return nil, malformed("suggestions must be a list of {title, notes}")
	}

	rawPrompts, ok := fields["image_prompts"]
	if !ok {
		return nil, malformed("missing image_prompts")
	}
	if err := json.Unmarshal(rawPrompts, &out.ImagePrompts); err != nil || out.ImagePrompts == nil {
		return nil, malformed("image_prompts must be a list of strings")
	}

	return out, nil
}

func parseOptions(raw json.RawMessage) ([]DesignOption, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, malformed("design_options must be a list of objects")
	}

	options := make([]DesignOption, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, malformed(fmt.Sprintf("design_options[%d] must be an object", i))
		}
		var opt DesignOption
		if err := requireString(item, "title", &opt.Title); err != nil {
			return nil, malformed(fmt.Sprintf("design_options[%d]: %v", i, err))
		}
		if err := optionalString(item, "description", &opt.Description); err != nil {
			return nil, malformed(fmt.Sprintf("design_options[%d]: %v", i, err))
		}
		if err := optionalString(item, "image_prompt", &opt.ImagePrompt); err != nil {
			return nil, malformed(fmt.Sprintf("design_options[%d]: %v", i, err))
		}
		options = append(options, opt)
	}
	return options, nil
}

func parseAction(raw json.RawMessage) (VersionAction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return VersionAction{}, malformed("version_action must be an object")
	}

	action := VersionAction{Type: ActionNone}
	var kind string
	if err := optionalString(fields, "type", &kind); err == nil && ActionType(kind).Valid() {
		action.Type = ActionType(kind)
	}
	_ = optionalString(fields, "notes", &action.Notes)

	var parent string
	if err := optionalString(fields, "parent_version_id", &parent); err == nil && parent != "" {
		if id, err := uuid.Parse(parent); err == nil {
			action.ParentVersionId = &id
		}
	}
	return action, nil
}

// parseHints keeps the well-formed {key, value} pairs and drops the rest.
func parseHints(raw json.RawMessage) []entity.PreferenceHint {
	hints := []entity.PreferenceHint{}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return hints
	}
	for _, item := range items {
		var hint entity.PreferenceHint
		if requireString(item, "key", &hint.Key) != nil || hint.Key == "" {
			continue
		}
		if requireString(item, "value", &hint.Value) != nil {
			continue
		}
		hints = append(hints, hint)
	}
	return hints
}

func decodeObject(text string) (map[string]json.RawMessage, error) {
	content := extractJSON(text)
	if content == "" {
		return nil, malformed("no JSON object found")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return fields, nil
}

// extractJSON trims anything around the outermost object, such as a
// markdown fence or a leading sentence.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return response[startIdx : endIdx+1]
}

func requireString(fields map[string]json.RawMessage, key string, dst *string) error {
	raw, ok := fields[key]
	if !ok {
		return fmt.Errorf("missing %s", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil || isNull(raw) {
		return fmt.Errorf("%s must be a string", key)
	}
	return nil
}

func optionalString(fields map[string]json.RawMessage, key string, dst *string) error {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s must be a string", key)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, reason)
}
