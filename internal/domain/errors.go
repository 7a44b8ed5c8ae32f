package domain

import "errors"

var (
	// ErrInvalidQuestion is returned when the session points at no answerable question.
	ErrInvalidQuestion = errors.New("invalid current question id")
	// ErrInvalidAnswer indicates the submitted text is not one of the question's options.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEmptyBank is returned when a bank has no questions.
	ErrEmptyBank = errors.New("question bank has no questions")
	// ErrInvalidBank wraps structural problems found while validating a bank.
	ErrInvalidBank = errors.New("invalid question bank")
)
