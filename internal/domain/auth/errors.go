package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrSessionMissing        = errors.New("no authenticated session")
	ErrEmployeeIDRequired    = errors.New("token is not bound to an employee")
	ErrManagerAccessRequired = errors.New("manager access required")
)
