package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/backoffice/internal/auth"
	"github.com/wolfeidau/backoffice/internal/client"
	"github.com/wolfeidau/backoffice/internal/guard"
)

// ErrTokenRejected is returned when the backend issues a token this client
// cannot use.
var ErrTokenRejected = errors.New("login token rejected")

// LoginCmd exchanges credentials for a session.
type LoginCmd struct {
	Server   string `help:"Backend URL" default:"http://localhost:8080" env:"BACKOFFICE_SERVER"`
	Email    string `help:"Account email" required:""`
	Password string `help:"Account password" required:"" env:"BACKOFFICE_PASSWORD"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	cfg := client.DefaultConfig()
	cfg.ServerURL = l.Server

	c, err := client.New(cfg, nil, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	result, err := c.Login(ctx, l.Email, l.Password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("invalid email or password: %w", err)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	decoder, err := globals.decoder()
	if err != nil {
		return fmt.Errorf("failed to create token decoder: %w", err)
	}

	// check the token before it replaces the stored session
	claims, err := decoder.Decode(result.Token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenRejected, err)
	}
	if claims.Expired(globals.now()) {
		return fmt.Errorf("%w: token already expired", ErrTokenRejected)
	}

	store, _, err := globals.openSession()
	if err != nil {
		return err
	}

	store.Login(result.Token, result.Permissions)

	snap := store.Snapshot()
	if !snap.Resolved() {
		return fmt.Errorf("%w: session could not be resolved", ErrTokenRejected)
	}

	log.Info().
		Str("subject", snap.Subject).
		Str("role", snap.Role.String()).
		Str("token", auth.Fingerprint(snap.Token)).
		Msg("logged in")

	out := globals.stdout()
	fmt.Fprintf(out, "Logged in as %s (%s)\n", snap.Subject, snap.Role)
	fmt.Fprintf(out, "Landing page: %s\n", guard.LandingPath(snap.Role))
	return nil
}
