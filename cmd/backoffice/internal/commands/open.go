package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/backoffice/internal/client"
	"github.com/wolfeidau/backoffice/internal/guard"
)

// OpenCmd navigates to a page the way the back-office router does: the
// route guard decides, and a rendered page shows its backend data.
type OpenCmd struct {
	OutputFlag
	Path   string `arg:"" help:"Page path, e.g. /vendedores or /vendedor/42"`
	Server string `help:"Backend URL" default:"http://localhost:8080" env:"BACKOFFICE_SERVER"`
}

type pageView struct {
	guard.Decision `yaml:",inline"`
	Data           json.RawMessage `json:"data,omitempty" yaml:"-"`
	DataYAML       any             `json:"-" yaml:"data,omitempty"`
}

func (o *OpenCmd) Run(ctx context.Context, globals *Globals) error {
	store, files, err := globals.openSession()
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	d := guard.New(guard.DefaultRoutes()).Navigate(ctx, snap, o.Path)

	view := pageView{Decision: d}

	if endpoint := d.Endpoint(); endpoint != "" {
		cfg := client.DefaultConfig()
		cfg.ServerURL = o.Server
		cfg.CacheDir = cacheDir(files, snap.Token)

		c, err := client.New(cfg, client.NewSessionTokenSource(store), log.Logger)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		if err := c.GetJSON(ctx, endpoint, &view.Data); err != nil {
			return fmt.Errorf("failed to load %s: %w", o.Path, err)
		}
		if o.Output == "yaml" {
			if err := json.Unmarshal(view.Data, &view.DataYAML); err != nil {
				return fmt.Errorf("failed to convert page data: %w", err)
			}
		}
	}

	return o.render(globals.stdout(), view, func(out io.Writer) error {
		switch d.Outcome {
		case guard.NotFound:
			fmt.Fprintln(out, "404 | page not found")
		case guard.Loading:
			fmt.Fprintln(out, "Loading...")
		case guard.Redirect:
			fmt.Fprintf(out, "Redirected to %s\n", d.Redirect)
		case guard.Render:
			fmt.Fprintf(out, "%s\n", d.Route.Title)
			if len(view.Data) > 0 {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view.Data)
			}
		}
		return nil
	})
}
