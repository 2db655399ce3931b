package middleware

import (
	"bytes"

	"github.com/valyala/fasthttp"
)

const defaultGzipMinSize = 1024

var gzipToken = []byte("gzip")

// Compress negotiates gzip transfer encoding: when the client advertises
// support and the serialized payload reaches minSize bytes, the body is
// compressed in place and Content-Encoding is set.
func Compress(minSize int) Middleware {
	if minSize <= 0 {
		minSize = defaultGzipMinSize
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			next(ctx)

			if !bytes.Contains(ctx.Request.Header.Peek("Accept-Encoding"), gzipToken) {
				return
			}
			if len(ctx.Response.Header.ContentEncoding()) > 0 {
				return
			}
			body := ctx.Response.Body()
			if len(body) < minSize {
				return
			}

			compressed := fasthttp.AppendGzipBytesLevel(nil, body, fasthttp.CompressDefaultCompression)
			ctx.Response.SetBodyRaw(compressed)
			ctx.Response.Header.SetContentEncoding("gzip")
			ctx.Response.Header.Add("Vary", "Accept-Encoding")
		}
	}
}
