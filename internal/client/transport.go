package client

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wolfeidau/backoffice/internal/logger"
)

// NewTransport builds the transport shared by every backend call: request
// logging, tracing, HTTP caching and transparent gzip, in that order.
//
// With an empty cacheDir responses are cached in memory only.
func NewTransport(log zerolog.Logger, cacheDir string) http.RoundTripper {
	var cache httpcache.Cache
	if cacheDir == "" {
		cache = httpcache.NewMemoryCache()
	} else {
		// Use disk-based cache for persistence across invocations
		cache = diskcache.New(cacheDir)
	}

	caching := httpcache.NewTransport(cache)
	caching.Transport = gzhttp.Transport(http.DefaultTransport)

	return logger.NewRequests(log, otelhttp.NewTransport(caching))
}
