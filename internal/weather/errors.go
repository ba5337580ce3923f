package weather

import (
	"errors"
	"fmt"
)

// User-facing messages. The root cause of a failed fetch is never shown.
const (
	MessageEmptyCity   = "Veuillez saisir un nom de ville"
	MessageFetchFailed = "Ville non trouvée ou problème de connexion"
)

// ErrEmptyCity is returned when the city name is empty or whitespace-only
var ErrEmptyCity = errors.New("city name is empty")

// Kind classifies a fetch failure
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindNetwork    Kind = "network"
	KindUpstream   Kind = "upstream"
	KindMalformed  Kind = "malformed"
	KindCanceled   Kind = "canceled"
)

// Error keeps the kind and the original cause of a failed lookup
type Error struct {
	Kind       Kind
	City       string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("weather %s for %q (status %d): %v", e.Kind, e.City, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("weather %s for %q: %v", e.Kind, e.City, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindNetwork for unclassified errors
func KindOf(err error) Kind {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind
	}
	if errors.Is(err, ErrEmptyCity) {
		return KindValidation
	}
	return KindNetwork
}

// UserMessage maps any lookup error onto the message shown to the end user
func UserMessage(err error) string {
	if KindOf(err) == KindValidation {
		return MessageEmptyCity
	}
	return MessageFetchFailed
}

func validationError(city string) *Error {
	return &Error{Kind: KindValidation, City: city, Err: ErrEmptyCity}
}
