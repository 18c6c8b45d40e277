package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgentResponse_Valid(t *testing.T) {
	text := "```json\n" + `{
		"reply": "Here are two ideas",
		"design_options": [
			{"title": "Warm", "description": "wood", "image_prompt": "warm room"},
			{"title": "Calm"}
		],
		"version_action": {"type": "revise_version", "notes": "tweak", "parent_version_id": "8d0f7a4e-8a5e-4b8e-9f61-1f1a2b3c4d5e"},
		"preference_hints": [{"key": "tone", "value": "warm"}, {"key": 3}]
	}` + "\n```"

	resp, err := ParseAgentResponse(text)
	require.NoError(t, err)

	assert.Equal(t, "Here are two ideas", resp.Reply)
	require.Len(t, resp.DesignOptions, 2)
	assert.Equal(t, "warm room", resp.DesignOptions[0].Prompt())
	assert.Equal(t, "Calm", resp.DesignOptions[1].Prompt())
	assert.Equal(t, ActionReviseVersion, resp.VersionAction.Type)
	assert.Equal(t, "tweak", resp.VersionAction.Notes)
	require.NotNil(t, resp.VersionAction.ParentVersionId)
	assert.Equal(t, "8d0f7a4e-8a5e-4b8e-9f61-1f1a2b3c4d5e", resp.VersionAction.ParentVersionId.String())
	require.Len(t, resp.PreferenceHints, 1)
	assert.Equal(t, "tone", resp.PreferenceHints[0].Key)
}

func TestParseAgentResponse_Defaults(t *testing.T) {
	resp, err := ParseAgentResponse(`{"reply": "ok", "design_options": [], "version_action": {"type": "delete_everything"}, "preference_hints": "warm"}`)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, resp.VersionAction.Type)
	assert.NotNil(t, resp.PreferenceHints)
	assert.Empty(t, resp.PreferenceHints)

	resp, err = ParseAgentResponse(`{"reply": "ok", "design_options": []}`)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, resp.VersionAction.Type)
	assert.Nil(t, resp.VersionAction.ParentVersionId)
}

func TestParseAgentResponse_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":               "sorry, I cannot help",
		"broken json":            `{"reply": "ok", `,
		"missing reply":          `{"design_options": []}`,
		"reply not string":       `{"reply": 4, "design_options": []}`,
		"null reply":             `{"reply": null, "design_options": []}`,
		"null options":           `{"reply": "ok", "design_options": null}`,
		"null action":            `{"reply": "ok", "design_options": [], "version_action": null}`,
		"missing options":        `{"reply": "ok"}`,
		"options not list":       `{"reply": "ok", "design_options": {"title": "x"}}`,
		"option not object":      `{"reply": "ok", "design_options": ["x"]}`,
		"option without title":   `{"reply": "ok", "design_options": [{"description": "x"}]}`,
		"description not string": `{"reply": "ok", "design_options": [{"title": "x", "description": 1}]}`,
		"action not object":      `{"reply": "ok", "design_options": [], "version_action": "create_version"}`,
	}

	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAgentResponse(text)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestParseSuggestionResponse(t *testing.T) {
	resp, err := ParseSuggestionResponse(`Sure! {"suggestions": [{"title": "A", "notes": "n"}], "image_prompts": ["p"]}`)
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{Title: "A", Notes: "n"}}, resp.Suggestions)
	assert.Equal(t, []string{"p"}, resp.ImagePrompts)

	for _, text := range []string{
		`{"image_prompts": []}`,
		`{"suggestions": [], "image_prompts": "p"}`,
		`{"suggestions": "x", "image_prompts": []}`,
		`nothing here`,
	} {
		_, err := ParseSuggestionResponse(text)
		assert.ErrorIs(t, err, ErrMalformedResponse, text)
	}
}

func TestFallbackAgentResponse(t *testing.T) {
	fb := FallbackAgentResponse()
	assert.Equal(t, "I hit a snag generating a full response, but I can still help.", fb.Reply)
	assert.Empty(t, fb.DesignOptions)
	assert.Equal(t, ActionNone, fb.VersionAction.Type)
	assert.Empty(t, fb.PreferenceHints)
}
