package middleware

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
)

// Middleware wraps a fasthttp handler with additional behavior.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// Chain applies middlewares so that the first one listed is the outermost.
func Chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}
