package middleware

import (
	"net/http"

	"github.com/valyala/fasthttp"
)

// CORS answers preflight requests and stamps the allow-origin headers for
// origins on the configured allow list. An allow list of "*" admits any
// origin.
func CORS(allowedOrigins []string) Middleware {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			origin := string(ctx.Request.Header.Peek("Origin"))
			if origin != "" {
				if allowAll {
					ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
				} else if _, ok := allowed[origin]; ok {
					ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
					ctx.Response.Header.Add("Vary", "Origin")
				}
				ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				ctx.Response.Header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
			}

			if string(ctx.Method()) == fasthttp.MethodOptions {
				ctx.SetStatusCode(http.StatusNoContent)
				return
			}

			next(ctx)
		}
	}
}
