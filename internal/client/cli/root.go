package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.owner != "" {
		s = shorten(a.owner) + " "
	}
	if a.isUnlocked() {
		s += "unlocked "
	}
	s += string(a.Mode)
	return fmt.Sprintf("(%s)", s)
}

// shorten trims long base58 owners for the prompt.
func shorten(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:4] + ".." + s[len(s)-4:]
}

func (a *App) Root(ctx context.Context) {
	a.logger.Info(ctx, "welcome to zkvault CLI (type 'help' for commands)", "mode", a.Mode)
	runREPL(ctx, a, a.getStatus, a.reader)
}
