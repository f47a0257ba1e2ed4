package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/caddieai/caddie/internal/ctxkeys"
	"github.com/caddieai/caddie/internal/response"
)

// Recovery turns panics into a 500 envelope. The panic is reported to Sentry
// (a no-op without a DSN) before being handled here.
func Recovery(next http.Handler) http.Handler {
	reporter := sentryhttp.New(sentryhttp.Options{Repanic: true})
	reported := reporter.Handle(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				slog.Error("panic recovered",
					"error", err,
					"path", r.URL.Path,
					"request_id", ctxkeys.RequestID(r.Context()),
					"stack", string(debug.Stack()),
				)
				response.Error(w, http.StatusInternalServerError, response.CodeInternal, "Something went wrong")
			}
		}()

		reported.ServeHTTP(w, r)
	})
}
