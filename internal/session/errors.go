package session

import "errors"

var (
	ErrSessionNotFound      = errors.New("chat session not found")
	ErrDocumentLoaded       = errors.New("a document is already loaded in this chat")
	ErrNoDocument           = errors.New("upload a document first")
	ErrModeAlreadySet       = errors.New("interaction mode already chosen for this chat")
	ErrQuizGenerationFailed = errors.New("failed to generate questions, please try again")
	ErrEmptyQuestion        = errors.New("question is empty")
	ErrWrongMode            = errors.New("chat is not in the required mode")
	ErrEmptyAnswer          = errors.New("please provide an answer")
	ErrQuizComplete         = errors.New("quiz is already complete")
)
