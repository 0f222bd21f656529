// Package client talks to the food delivery API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract split into role interfaces
//     (AuthAPI, MenuAPI, OrderAPI, TaskAPI) and their union, Client.
//  2. HTTPClient, a JSON-over-HTTP implementation of Client.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite file and applies the embedded goose migrations.
//
// # Credentials
//
// HTTPClient never keeps default headers. When built WithTokenSource, each
// outgoing request asks the source for the current token and, if there is
// one, sets "Authorization: Bearer <token>". A source answering ErrNoToken
// yields an anonymous request, as does any call made with Anonymous(ctx).
//
// # Error Handling
//
// Failures map to sentinel errors matched with errors.Is: ErrUnavailable
// (transport failures and 5xx), ErrUnauthorized (401/403), ErrNotFound
// (404) and ErrInvalidRequest (400/422). Non-2xx answers are *StatusError.
//
// No call is retried.
package client
