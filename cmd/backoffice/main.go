package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/backoffice/cmd/backoffice/internal/commands"
	"github.com/wolfeidau/backoffice/internal/logger"
	"github.com/wolfeidau/backoffice/internal/telemetry"
)

var (
	version = "dev"
	cli     struct {
		Login  commands.LoginCmd  `cmd:"" help:"Log in to the back-office"`
		Logout commands.LogoutCmd `cmd:"" help:"End the current session"`
		Status commands.StatusCmd `cmd:"" help:"Show the current session"`
		Menu   commands.MenuCmd   `cmd:"" help:"Show the navigation menu for the current session"`
		Open   commands.OpenCmd   `cmd:"" help:"Open a page, applying the route guard"`
		Routes commands.RoutesCmd `cmd:"" help:"List routes and the current session's access"`
		Token  commands.TokenCmd  `cmd:"" help:"Generate a development JWT token"`

		SessionDir string `help:"Directory holding the session file" env:"BACKOFFICE_SESSION_DIR" default:""`
		VerifyKey  string `help:"PEM public key used to verify token signatures" env:"BACKOFFICE_VERIFY_KEY" default:""`
		Telemetry  bool   `help:"Export traces and metrics over OTLP." env:"BACKOFFICE_TELEMETRY"`
		Debug      bool   `help:"Enable debug mode."`
		Version    kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		})

	log.Logger = logger.Setup(cli.Debug)
	ctx = log.Logger.WithContext(ctx)
	cmd.BindTo(ctx, (*context.Context)(nil))

	if cli.Telemetry {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName: "backoffice",
			Version:     version,
			SampleRatio: 1,
		})
		cmd.FatalIfErrorf(err)
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	err := cmd.Run(&commands.Globals{
		Debug:      cli.Debug,
		Version:    version,
		SessionDir: cli.SessionDir,
		VerifyKey:  cli.VerifyKey,
	})
	if err != nil {
		log.Error().Err(err).Msg("command failed")
	}
	cmd.FatalIfErrorf(err)
}
