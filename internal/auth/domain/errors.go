package domain

import (
	"github.com/allisson/phiguard/internal/errors"
)

var (
	// ErrInvalidCredentials indicates the client id/secret pair did not
	// authenticate. The message is identical for unknown clients, inactive
	// clients and wrong secrets.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidRole indicates an unknown role was supplied at client creation.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")
)
