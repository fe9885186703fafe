package internal

import "errors"

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidOperator    = errors.New("invalid operator")
	ErrUnknownModifier    = errors.New("unknown modifier")
	ErrMissingArgument    = errors.New("missing argument")
	ErrMissingHandler     = errors.New("transacting requires a handler function")
	ErrBindingConflict    = errors.New("binding key already bound to a different value")
	ErrTransactionSettled = errors.New("transaction already committed or rolled back")
)
