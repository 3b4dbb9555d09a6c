package usecase

import "errors"

var (
	// ErrInvalidInput indicates a request payload that fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPasswordPolicyViolation indicates the password does not satisfy complexity requirements.
	ErrPasswordPolicyViolation = errors.New("password does not meet complexity requirements")
	// ErrUpstreamAuth indicates the federated identity provider rejected or failed the exchange.
	ErrUpstreamAuth = errors.New("identity provider exchange failed")
)
