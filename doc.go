// Package authflow implements credential and ephemeral-token lifecycle
// management: bcrypt password verification, JWT access/refresh token pairs
// carrying role claims, role-based access evaluation, and the email
// verification and password reset flows that run on a TTL key-value store.
//
// The package is transport-agnostic at its core. HTTPController and the
// middleware/guard package provide an optional fiber surface; everything
// they do is available by calling the services directly.
package authflow
