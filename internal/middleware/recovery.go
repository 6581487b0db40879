package middleware

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"location-cache-api/pkg/apierror"
)

// Recovery turns a handler panic into a 500 envelope. http.ErrAbortHandler
// is re-raised so the server can drop the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			log.Printf("[Recovery] rid=%s %s %s panicked: %v\n%s",
				GetRequestID(r.Context()), r.Method, r.URL.Path, rec, debug.Stack())
			apierror.InternalError("internal server error").Write(w)
		}()

		next.ServeHTTP(w, r)
	})
}
