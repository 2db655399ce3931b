package middleware

import (
	"bytes"

	"github.com/valyala/fasthttp"
)

var apiPrefix = []byte("/api/")

// CacheHeaders applies the response caching policy: the health probe may be
// cached briefly, authenticated per-user API data and all mutations must
// never be cached by intermediaries.
func CacheHeaders() Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if ctx.IsGet() {
				switch {
				case string(ctx.Path()) == "/health":
					ctx.Response.Header.Set("Cache-Control", "public, max-age=60")
				case bytes.HasPrefix(ctx.Path(), apiPrefix):
					ctx.Response.Header.Set("Cache-Control", "no-store")
				}
			} else {
				ctx.Response.Header.Set("Cache-Control", "no-store")
			}

			next(ctx)
		}
	}
}
