package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPageRange     = errors.New("invalid page range")
	ErrStructuralMismatch   = errors.New("detail link count does not match listing card count")
	ErrRequiredFieldMissing = errors.New("required field is missing")
	ErrNothingScraped       = errors.New("no index page could be fetched and processed")
)

// ParseError - структурированная ошибка разбора одного поля одной карточки или страницы
type ParseError struct {
	Field    string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (selector %q): %v", e.Field, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingField - ParseError для отсутствующего обязательного элемента
func MissingField(field, selector string) *ParseError {
	return &ParseError{Field: field, Selector: selector, Err: ErrRequiredFieldMissing}
}
