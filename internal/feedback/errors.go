package feedback

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures for status and message mapping.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindExternalService Kind = "external_service"
	KindIO              Kind = "io"
)

// Error wraps a pipeline failure with its kind and the failing step.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrArticleRequired = errors.New("article is required")
	ErrFileRequired    = errors.New("file is required")
)

func validation(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

func external(op string, err error) error {
	return &Error{Kind: KindExternalService, Op: op, Err: err}
}

func ioErr(op string, err error) error {
	return &Error{Kind: KindIO, Op: op, Err: err}
}

// KindOf returns the kind carried by err; unclassified errors count as io.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindIO
}

// ClientMessage maps err to a message that is safe to return to callers.
func ClientMessage(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind == KindValidation && fe.Err != nil {
		return fe.Err.Error()
	}
	switch KindOf(err) {
	case KindExternalService:
		return "Error generating feedback."
	default:
		return "Error reading uploaded file."
	}
}
