package interaction

import (
	"testing"
	"time"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyboardReader_ParseInput(t *testing.T) {
	kr := newKeyboardReader()

	tests := []struct {
		name     string
		input    []byte
		expected *KeyEvent
	}{
		{name: "empty", input: []byte{}, expected: nil},
		{name: "regular char", input: []byte{'a'}, expected: &KeyEvent{Key: 'a', Type: KeyChar}},
		{name: "ctrl-c", input: []byte{3}, expected: &KeyEvent{Key: 3, Type: KeyChar}},
		{name: "escape", input: []byte{27}, expected: &KeyEvent{Key: 27, Type: KeyEscape}},
		{name: "arrow up", input: []byte{27, '[', 'A'}, expected: &KeyEvent{Type: KeyArrowUp}},
		{name: "arrow down", input: []byte{27, '[', 'B'}, expected: &KeyEvent{Type: KeyArrowDown}},
		{name: "unknown sequence", input: []byte{27, '[', 'Z'}, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, kr.parseInput(tt.input))
		})
	}
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		event KeyEvent
		want  Action
	}{
		{KeyEvent{Key: 'q', Type: KeyChar}, ActionQuit},
		{KeyEvent{Key: 3, Type: KeyChar}, ActionQuit},
		{KeyEvent{Key: 27, Type: KeyEscape}, ActionQuit},
		{KeyEvent{Key: 'r', Type: KeyChar}, ActionRefresh},
		{KeyEvent{Key: 'O', Type: KeyChar}, ActionToggleOrder},
		{KeyEvent{Key: 'l', Type: KeyChar}, ActionToggleLayout},
		{KeyEvent{Key: 'x', Type: KeyChar}, ActionNone},
		{KeyEvent{Type: KeyArrowUp}, ActionNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ActionFor(tt.event), "%+v", tt.event)
	}
}

func TestDaySorter(t *testing.T) {
	buckets, err := history.NewGrouperInLocation(time.UTC).Group([]model.RunHistoryRecord{
		{RunName: "a", Time: "2024-06-04 10:00:00"},
		{RunName: "b", Time: "2024-06-06 10:00:00"},
		{RunName: "c", Time: "2024-06-05 10:00:00"},
		{RunName: "d", Time: "2024-06-06 08:00:00"},
	})
	require.NoError(t, err)

	labels := func(days []history.DayBucket) []string {
		out := make([]string, len(days))
		for i, d := range days {
			out[i] = d.Label
		}
		return out
	}

	sorter := NewDaySorter()
	assert.Equal(t, SortDescending, sorter.Order())
	desc := sorter.Sort(buckets)
	assert.Equal(t, []string{"6 June, 2024", "5 June, 2024", "4 June, 2024"}, labels(desc))
	assert.Equal(t, "b", desc[0].Records[0].RunName, "records keep their order within a day")
	assert.Equal(t, "d", desc[0].Records[1].RunName)

	sorter.Toggle()
	assert.Equal(t, []string{"4 June, 2024", "5 June, 2024", "6 June, 2024"}, labels(sorter.Sort(buckets)))

	assert.Equal(t, []string{"4 June, 2024", "6 June, 2024", "5 June, 2024"}, buckets.Labels(), "source buckets unchanged")
	assert.Nil(t, sorter.Sort(nil))
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortAscending, ParseSortOrder("asc"))
	assert.Equal(t, SortDescending, ParseSortOrder("desc"))
	assert.Equal(t, SortDescending, ParseSortOrder(""))
	assert.Equal(t, "asc", SortAscending.String())
	assert.Equal(t, "desc", SortDescending.String())
}
