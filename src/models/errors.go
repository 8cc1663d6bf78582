package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind tells user-input problems apart from rate-source problems.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInputMalformed
	KindRateUnresolvable
)

func (k ErrorKind) String() string {
	switch k {
	case KindInputMalformed:
		return "input malformed"
	case KindRateUnresolvable:
		return "rate unresolvable"
	default:
		return "unknown"
	}
}

var (
	ErrInputMalformed   = errors.New("input malformed")
	ErrRateUnresolvable = errors.New("rate unresolvable")
)

// ReportError carries the kind of a failure that aborted a report.
type ReportError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ReportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }

// Is matches the kind sentinels so callers can use errors.Is.
func (e *ReportError) Is(target error) bool {
	switch target {
	case ErrInputMalformed:
		return e.Kind == KindInputMalformed
	case ErrRateUnresolvable:
		return e.Kind == KindRateUnresolvable
	}
	return false
}

// InputMalformed wraps err as an input-malformed failure of op.
func InputMalformed(op string, err error) error {
	return &ReportError{Kind: KindInputMalformed, Op: op, Err: err}
}

// RateUnresolvable wraps err as a failed rate lookup for currency on date.
func RateUnresolvable(currency string, date time.Time, err error) error {
	return &ReportError{
		Kind: KindRateUnresolvable,
		Op:   fmt.Sprintf("rate %s on %s", currency, date.Format("2006-01-02")),
		Err:  err,
	}
}

// KindOf returns the kind of the first ReportError in err's chain.
func KindOf(err error) ErrorKind {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}
