package shortcut

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindMissing(t *testing.T) {
	tests := []struct {
		name     string
		commands []Command
		want     []string
	}{
		{
			name:     "no commands",
			commands: []Command{},
			want:     []string{},
		},
		{
			name:     "nil commands",
			commands: nil,
			want:     []string{},
		},
		{
			name: "all assigned",
			commands: []Command{
				{Name: "Command1", Shortcut: "Ctrl+C"},
				{Name: "Command2", Shortcut: "Ctrl+V"},
				{Name: "Command3", Shortcut: "Ctrl+X"},
			},
			want: []string{},
		},
		{
			name: "one missing",
			commands: []Command{
				{Name: "Command1", Shortcut: "Ctrl+C"},
				{Name: "Command2", Shortcut: ""},
				{Name: "Command3", Shortcut: "Ctrl+X"},
			},
			want: []string{"Command2"},
		},
		{
			name: "order preserved",
			commands: []Command{
				{Name: "c", Shortcut: ""},
				{Name: "a", Shortcut: "Alt+A"},
				{Name: "b", Shortcut: ""},
			},
			want: []string{"c", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindMissing(tt.commands)
			assert.Len(t, got, len(tt.want))
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDefaultCommandsHaveShortcuts(t *testing.T) {
	assert.Empty(t, FindMissing(DefaultCommands()))
}

func TestAudit(t *testing.T) {
	r := Audit([]Command{{Name: "a", Shortcut: "Alt+A"}, {Name: "b"}})
	assert.True(t, r.Conflict)
	assert.Equal(t, []string{"b"}, r.Missing)
	assert.Equal(t, SettingsURL, r.SettingsURL)

	assert.False(t, Audit(DefaultCommands()).Conflict)
}
