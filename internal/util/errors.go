package util

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrGameNotFound          = errors.New("game not found")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrProgressNotFound      = errors.New("player progress not found")
	ErrAlreadyInGame         = errors.New("user already has an open game")
	ErrNotInActiveGame       = errors.New("user has no answerable active game")
	ErrNoCurrentGame         = errors.New("user has no current game")
	ErrNotAParticipant       = errors.New("user is not a participant of this game")
	ErrInsufficientQuestions = errors.New("not enough published questions")
	ErrEmptyAnswer           = errors.New("answer text must not be empty")
	ErrAnswerTooLong         = errors.New("answer text exceeds maximum length")
	ErrMatchConflict         = errors.New("matchmaking conflict, please retry")
)
