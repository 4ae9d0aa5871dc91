package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
)

// Logger returns a container filter that logs every request after it completes.
func Logger(logger *zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()
		chain.ProcessFilter(req, resp)

		logger.Info().
			Str("method", req.Request.Method).
			Str("path", req.Request.URL.Path).
			Int("status", resp.StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}

// RecoverPanic converts a panic in any downstream filter or handler into a
// 500. The panic value is echoed to the client only when expose is true.
func RecoverPanic(logger *zerolog.Logger, expose bool) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Str("path", req.Request.URL.Path).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from panic")

				WriteError(resp, &InternalError{Err: fmt.Errorf("%v", r), Expose: expose})
			}
		}()

		chain.ProcessFilter(req, resp)
	}
}
