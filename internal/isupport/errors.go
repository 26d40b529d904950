package isupport

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyToken   = errors.New("empty token")
	ErrMissingValue = errors.New("missing value")
	ErrInvalidValue = errors.New("invalid value")
)

// TokenError reports a single ISUPPORT token that could not be interpreted.
// It never affects the other tokens on the line.
type TokenError struct {
	Token string
	Key   string
	Err   error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("bad isupport token `%s`: %v", e.Token, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

func tokenError(token, key string, err error) *TokenError {
	return &TokenError{Token: token, Key: key, Err: err}
}
