package client

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenSourceFunc adapts a function to oauth2.TokenSource. It allows the
// source to be bound after the client is built.
type TokenSourceFunc func() (*oauth2.Token, error)

func (f TokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

type anonymousKey struct{}

// Anonymous marks ctx so that requests made with it carry no credential,
// whatever the token source holds.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func isAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}

// credentialTransport injects the bearer token read from source at the
// moment each request is sent.
type credentialTransport struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isAnonymous(req.Context()) {
		return t.base.RoundTrip(req)
	}

	tok, err := t.source.Token()
	if errors.Is(err, ErrNoToken) {
		return t.base.RoundTrip(req)
	}
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}

	// RoundTrippers must not modify the caller's request.
	authed := req.Clone(req.Context())
	tok.SetAuthHeader(authed)
	return t.base.RoundTrip(authed)
}
