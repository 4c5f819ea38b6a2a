package commands

import (
	"context"
	"fmt"
)

// LogoutCmd ends the current session. Cached responses are dropped with it.
type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	store, _, err := globals.openSession()
	if err != nil {
		return err
	}

	store.Logout()

	fmt.Fprintln(globals.stdout(), "Logged out.")
	return nil
}
