// Package shortcut audits the keyboard command catalog.
package shortcut

import "github.com/samber/lo"

// Command is a registered keyboard command and its assigned shortcut.
// An empty Shortcut means the command has no key binding.
type Command struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Shortcut    string `json:"shortcut"`
}

// SettingsURL is where shortcut conflicts are resolved in the browser.
const SettingsURL = "chrome://extensions/shortcuts"

// DefaultCommands returns the built-in command catalog.
func DefaultCommands() []Command {
	return []Command{
		{Name: "_execute_action", Description: "Copy the current URL", Shortcut: "Alt+Shift+C"},
	}
}

// FindMissing returns the names of commands without a shortcut, in input order.
func FindMissing(commands []Command) []string {
	return lo.FilterMap(commands, func(c Command, _ int) (string, bool) {
		return c.Name, c.Shortcut == ""
	})
}

// Report is the outcome of auditing a command catalog.
type Report struct {
	Conflict    bool      `json:"conflict"`
	Missing     []string  `json:"missing"`
	Commands    []Command `json:"commands"`
	SettingsURL string    `json:"settings_url"`
}

// Audit reports which commands lack a shortcut.
func Audit(commands []Command) Report {
	missing := FindMissing(commands)
	return Report{
		Conflict:    len(missing) > 0,
		Missing:     missing,
		Commands:    commands,
		SettingsURL: SettingsURL,
	}
}
