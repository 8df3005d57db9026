package server

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

func NewLoggerHandler(logger *zap.Logger, handler fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		begin := time.Now()

		handler(ctx)

		logger.Debug(string(ctx.Method()),
			zap.String("url", string(ctx.RequestURI())),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("elapse", time.Since(begin)),
		)
	}
}
