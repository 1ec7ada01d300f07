package middleware

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

type contextKeyClientInfo struct{}

// ClientInfo summarizes the calling client for audit and debugging.
type ClientInfo struct {
	Browser  string
	OS       string
	Bot      bool
	RemoteIP string
}

// GetClientInfo retrieves the parsed client info from the context.
func GetClientInfo(ctx context.Context) ClientInfo {
	if info, ok := ctx.Value(contextKeyClientInfo{}).(ClientInfo); ok {
		return info
	}
	return ClientInfo{}
}

// RequestMetadata parses the User-Agent header once per request and stows
// the result in the context.
func RequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.UserAgent())
		browser, version := ua.Browser()
		info := ClientInfo{
			Browser:  browser + "/" + version,
			OS:       ua.OS(),
			Bot:      ua.Bot(),
			RemoteIP: r.RemoteAddr,
		}
		ctx := context.WithValue(r.Context(), contextKeyClientInfo{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
