package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfeidau/backoffice/internal/access"
	"github.com/wolfeidau/backoffice/internal/auth"
)

type TokenCmd struct {
	Subject    string        `help:"Subject identifier" required:""`
	Role       string        `help:"Role claim" default:"ROLE_ADMIN" enum:"ROLE_SUPER_ADMIN,ROLE_ADMIN,ROLE_VENDEDOR"`
	TTL        time.Duration `help:"Token lifetime" default:"1h"`
	SigningKey string        `help:"JWT signing key" required:"" env:"JWT_SIGNING_KEY"`
}

func (t *TokenCmd) Run(ctx context.Context, globals *Globals) error {
	role, ok := access.ParseRole(t.Role)
	if !ok {
		return fmt.Errorf("unknown role: %s", t.Role)
	}

	token, err := auth.IssueToken(t.SigningKey, t.Subject, role, t.TTL)
	if err != nil {
		return err
	}

	fmt.Fprintln(globals.stdout(), token)
	return nil
}
