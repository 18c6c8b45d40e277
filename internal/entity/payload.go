package entity

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// The JSON columns (feedback payload, image params, message metadata) are
// decoded into typed shapes. Keys that are unknown, or known but mistyped,
// are kept verbatim in Extra and written back on encode.

// OptionIndex accepts a JSON number or string and keeps its textual form.
type OptionIndex string

func (o *OptionIndex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = OptionIndex(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*o = OptionIndex(n.String())
	return nil
}

func (o OptionIndex) MarshalJSON() ([]byte, error) {
	if _, err := json.Number(o).Int64(); err == nil {
		return []byte(o), nil
	}
	if _, err := json.Number(o).Float64(); err == nil {
		return []byte(o), nil
	}
	return json.Marshal(string(o))
}

type FeedbackPayload struct {
	Text                *string      `json:"text,omitempty"`
	SelectedOptionIndex *OptionIndex `json:"selected_option_index,omitempty"`
	OptionId            *string      `json:"option_id,omitempty"`
	Note                *string      `json:"note,omitempty"`
	Source              *string      `json:"source,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// TextValue returns the free-text part of the payload, or "".
func (p FeedbackPayload) TextValue() string {
	if p.Text == nil {
		return ""
	}
	return *p.Text
}

// SelectedOption returns the selected option index as text.
func (p FeedbackPayload) SelectedOption() (string, bool) {
	if p.SelectedOptionIndex == nil {
		return "", false
	}
	return string(*p.SelectedOptionIndex), true
}

func (p FeedbackPayload) MarshalJSON() ([]byte, error) {
	type fields FeedbackPayload
	return marshalWithExtra(fields(p), p.Extra)
}

func (p *FeedbackPayload) UnmarshalJSON(data []byte) error {
	var decoded FeedbackPayload
	extra, err := decodeKnown(data, map[string]interface{}{
		"text":                  &decoded.Text,
		"selected_option_index": &decoded.SelectedOptionIndex,
		"option_id":             &decoded.OptionId,
		"note":                  &decoded.Note,
		"source":                &decoded.Source,
	})
	if err != nil {
		return err
	}
	decoded.Extra = extra
	*p = decoded
	return nil
}

type ImageParams struct {
	Seed     *int    `json:"seed,omitempty"`
	OptionId *string `json:"option_id,omitempty"`
	Title    *string `json:"title,omitempty"`
	Source   *string `json:"source,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (p ImageParams) MarshalJSON() ([]byte, error) {
	type fields ImageParams
	return marshalWithExtra(fields(p), p.Extra)
}

func (p *ImageParams) UnmarshalJSON(data []byte) error {
	var decoded ImageParams
	extra, err := decodeKnown(data, map[string]interface{}{
		"seed":      &decoded.Seed,
		"option_id": &decoded.OptionId,
		"title":     &decoded.Title,
		"source":    &decoded.Source,
	})
	if err != nil {
		return err
	}
	decoded.Extra = extra
	*p = decoded
	return nil
}

// MessageMetadata is the durable record of an assistant turn. User messages
// leave it empty.
type MessageMetadata struct {
	ResolvedContext  *ContextSnapshot `json:"resolved_context,omitempty"`
	CreatedVersionId *uuid.UUID       `json:"created_version_id,omitempty"`
	CreatedImages    []CreatedImage   `json:"created_images,omitempty"`
	DesignOptions    []EnrichedOption `json:"design_options,omitempty"`
	PreferenceHints  []PreferenceHint `json:"preference_hints,omitempty"`
	Saved            *bool            `json:"saved,omitempty"`
	ActionType       string           `json:"action_type,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (m MessageMetadata) MarshalJSON() ([]byte, error) {
	type fields MessageMetadata
	return marshalWithExtra(fields(m), m.Extra)
}

func (m *MessageMetadata) UnmarshalJSON(data []byte) error {
	var decoded MessageMetadata
	extra, err := decodeKnown(data, map[string]interface{}{
		"resolved_context":   &decoded.ResolvedContext,
		"created_version_id": &decoded.CreatedVersionId,
		"created_images":     &decoded.CreatedImages,
		"design_options":     &decoded.DesignOptions,
		"preference_hints":   &decoded.PreferenceHints,
		"saved":              &decoded.Saved,
		"action_type":        &decoded.ActionType,
	})
	if err != nil {
		return err
	}
	decoded.Extra = extra
	*m = decoded
	return nil
}

func marshalWithExtra(known interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, taken := merged[k]; !taken {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// decodeKnown fills each target from its key. Mistyped values are not an
// error; they land in the returned extra map with the unknown keys.
func decodeKnown(data []byte, targets map[string]interface{}) (map[string]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	var extra map[string]json.RawMessage
	for key, raw := range all {
		target, known := targets[key]
		if known {
			if json.Unmarshal(raw, target) == nil {
				continue
			}
			// a failed decode can leave a half-filled value behind
			v := reflect.ValueOf(target).Elem()
			v.Set(reflect.Zero(v.Type()))
		}
		if extra == nil {
			extra = map[string]json.RawMessage{}
		}
		extra[key] = raw
	}
	return extra, nil
}
