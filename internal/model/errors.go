package model

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	// ErrPrecondition — операция вызвана до обязательного предыдущего шага.
	ErrPrecondition = errors.New("precondition failed")
	// ErrValidation — сгенерированные или полученные данные не прошли проверку.
	ErrValidation = errors.New("validation failed")
	// ErrStateConflict — конфликтующая операция уже выполняется.
	ErrStateConflict = errors.New("state conflict")
)

// Error carries an error kind together with a human-readable message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Unwrap exposes the kind so errors.Is(err, ErrValidation) works.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Preconditionf returns an ErrPrecondition error.
func Preconditionf(format string, args ...any) error {
	return &Error{Kind: ErrPrecondition, Msg: fmt.Sprintf(format, args...)}
}

// Validationf returns an ErrValidation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// StateConflictf returns an ErrStateConflict error.
func StateConflictf(format string, args ...any) error {
	return &Error{Kind: ErrStateConflict, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the error kind found in err's chain, or nil.
func KindOf(err error) error {
	for _, kind := range []error{ErrPrecondition, ErrValidation, ErrStateConflict} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
