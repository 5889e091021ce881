// Package wizard provides interactive terminal prompts for credentials.
package wizard

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/zmusic/zmusic/internal/zmusic/auth"
)

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// PromptLogin fills in any missing login fields interactively.
func PromptLogin(creds *auth.Credentials) error {
	var fields []huh.Field

	if creds.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&creds.Email))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

// PromptRegister fills in any missing registration fields interactively.
func PromptRegister(profile *auth.Profile) error {
	var fields []huh.Field

	if profile.DisplayName == "" {
		fields = append(fields, huh.NewInput().
			Title("Display name").
			Value(&profile.DisplayName))
	}
	if profile.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&profile.Email))
	}
	if profile.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&profile.Password))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}
