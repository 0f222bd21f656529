// Package gate decides whether a protected destination may be shown.
//
// The gate only reads the session. An anonymous visitor is sent to the
// login destination and the destination they asked for is remembered, so
// that a successful login can take them back there.
package gate

import (
	"net/http"
	"net/url"
	"sync"
)

// Authenticator is the part of the session the gate reads.
type Authenticator interface {
	IsAuthenticated() bool
}

// Decision is the outcome of one check. Redirect is set when Allowed is
// false.
type Decision struct {
	Allowed  bool
	Redirect string
}

type Gate struct {
	auth      Authenticator
	loginPath string

	mu      sync.Mutex
	pending string
}

func New(auth Authenticator, loginPath string) *Gate {
	return &Gate{auth: auth, loginPath: loginPath}
}

// Check evaluates one navigation attempt to dest.
func (g *Gate) Check(dest string) Decision {
	if g.auth.IsAuthenticated() {
		return Decision{Allowed: true}
	}

	g.mu.Lock()
	g.pending = dest
	g.mu.Unlock()
	return Decision{Redirect: g.loginPath}
}

// ReturnTo returns the destination remembered by the last refused check
// and forgets it. Without one it returns fallback.
func (g *Gate) ReturnTo(fallback string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	dest := g.pending
	g.pending = ""
	if dest == "" {
		return fallback
	}
	return dest
}

// Protect runs fn when dest is allowed.
func (g *Gate) Protect(dest string, fn func()) Decision {
	d := g.Check(dest)
	if d.Allowed {
		fn()
	}
	return d
}

// Middleware guards an HTTP handler. Anonymous requests get a 302 to the
// login path carrying the original request URI in the "from" parameter.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.auth.IsAuthenticated() {
			next.ServeHTTP(w, r)
			return
		}
		target := g.loginPath + "?" + url.Values{"from": {r.URL.RequestURI()}}.Encode()
		http.Redirect(w, r, target, http.StatusFound)
	})
}
