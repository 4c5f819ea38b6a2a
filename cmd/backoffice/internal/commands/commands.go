package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/backoffice/internal/auth"
	"github.com/wolfeidau/backoffice/internal/session"
)

type Globals struct {
	Debug      bool
	Version    string
	SessionDir string
	VerifyKey  string

	// Out receives command output, os.Stdout when nil.
	Out io.Writer

	// Now replaces time.Now for expiry checks.
	Now func() time.Time
}

func (g *Globals) stdout() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Globals) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

func (g *Globals) decoder() (*auth.Decoder, error) {
	if g.VerifyKey == "" {
		return auth.NewDecoder(), nil
	}
	return auth.NewVerifyingDecoder(g.VerifyKey)
}

// openSession hydrates the session stored on disk.
func (g *Globals) openSession() (*session.Store, *session.FileStore, error) {
	files, err := session.NewFileStore(g.SessionDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	decoder, err := g.decoder()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create token decoder: %w", err)
	}

	cache := cacheRoot(files)
	opts := []session.Option{
		session.WithOnClear(func() {
			if err := os.RemoveAll(cache); err != nil {
				log.Warn().Err(err).Str("dir", cache).Msg("failed to remove response cache")
			}
		}),
	}
	if g.Now != nil {
		opts = append(opts, session.WithClock(g.Now))
	}

	return session.NewStore(files, decoder, opts...), files, nil
}

// cacheRoot holds the response caches of every session. It goes away with
// the session, however the session ends.
func cacheRoot(files *session.FileStore) string {
	return filepath.Join(filepath.Dir(files.Path()), "cache")
}

// cacheDir is where HTTP responses for the session holding token are cached.
func cacheDir(files *session.FileStore, token string) string {
	return filepath.Join(cacheRoot(files), auth.Fingerprint(token))
}
