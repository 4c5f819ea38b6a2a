package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/wolfeidau/backoffice/internal/auth"
)

// StatusCmd shows the current session.
type StatusCmd struct {
	OutputFlag
}

type statusView struct {
	LoggedIn    bool       `json:"logged_in" yaml:"logged_in"`
	Token       string     `json:"token_fingerprint,omitempty" yaml:"token_fingerprint,omitempty"`
	Subject     string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	Role        string     `json:"role,omitempty" yaml:"role,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Permissions []string   `json:"permissions" yaml:"permissions"`
}

func (s *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	store, _, err := globals.openSession()
	if err != nil {
		return err
	}

	snap := store.Snapshot()

	view := statusView{
		LoggedIn:    snap.Resolved(),
		Token:       auth.Fingerprint(snap.Token),
		Subject:     snap.Subject,
		Role:        snap.Role.String(),
		Permissions: snap.Permissions.Strings(),
	}
	if !snap.ExpiresAt.IsZero() {
		exp := snap.ExpiresAt.UTC()
		view.ExpiresAt = &exp
	}

	return s.render(globals.stdout(), view, func(out io.Writer) error {
		if !view.LoggedIn {
			fmt.Fprintln(out, "Not logged in.")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "To start a session:")
			fmt.Fprintln(out, "  backoffice login --email <email>")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Subject:\t%s\n", view.Subject)
		fmt.Fprintf(w, "Role:\t%s\n", view.Role)
		fmt.Fprintf(w, "Token:\t%s\n", view.Token)
		fmt.Fprintf(w, "Expires:\t%s (in %s)\n",
			view.ExpiresAt.Format(time.RFC3339),
			view.ExpiresAt.Sub(globals.now()).Round(time.Second))
		modules := "(none)"
		if len(view.Permissions) > 0 {
			modules = strings.Join(view.Permissions, ", ")
		}
		fmt.Fprintf(w, "Modules:\t%s\n", modules)
		return w.Flush()
	})
}
