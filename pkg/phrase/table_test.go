package phrase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roomTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable([]Entry{
		{Phrase: "living room", Value: "living_room"},
		{Phrase: "livingroom", Value: "living_room"},
		{Phrase: "bedroom", Value: "bedroom"},
		{Phrase: "kitchen", Value: "kitchen"},
		{Phrase: "bathroom", Value: "bathroom"},
		{Phrase: "office", Value: "office"},
	})
	require.NoError(t, err)
	return table
}

func TestTable_First(t *testing.T) {
	table := roomTable(t)

	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"exact", "redo the kitchen", "kitchen", true},
		{"case insensitive", "My LIVING ROOM needs light", "living_room", true},
		{"joined alias", "livingroom refresh", "living_room", true},
		{"declaration order beats position", "office then living room", "living_room", true},
		{"substring of a longer word", "bedrooms everywhere", "bedroom", true},
		{"no match", "hallway", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.First(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestTable_All(t *testing.T) {
	table, err := NewTable(Phrases("warmer", "warm tones", "warm"))
	require.NoError(t, err)

	got := table.All("Make it WARMER with warm tones")
	require.Len(t, got, 3)
	assert.Equal(t, "warmer", got[0].Phrase)
	assert.Equal(t, "warm tones", got[1].Phrase)
	assert.Equal(t, "warm", got[2].Phrase)

	assert.True(t, table.Contains("warm"))
	assert.False(t, table.Contains("cool blues"))
	assert.Empty(t, table.All(""))
}

func TestNewTable_Rejects(t *testing.T) {
	_, err := NewTable(nil)
	assert.Error(t, err)

	_, err = NewTable(Phrases("ok", "  "))
	assert.Error(t, err)
}
