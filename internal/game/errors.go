package game

import "errors"

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown                  Code = "UNKNOWN"
	CodeCannotPlayYourself       Code = "CANNOT_PLAY_YOURSELF"
	CodeChallengeExists          Code = "CHALLENGE_EXISTS"
	CodeChallengeDoesNotExist    Code = "CHALLENGE_DOES_NOT_EXIST"
	CodeGameDoesNotExist         Code = "GAME_DOES_NOT_EXIST"
	CodeCannotAcceptOwnChallenge Code = "CANNOT_ACCEPT_OWN_CHALLENGE"
	CodeActiveGameExists         Code = "ACTIVE_GAME_EXISTS"
	CodeChallengeNotYetAccepted  Code = "CHALLENGE_NOT_YET_ACCEPTED"
	CodeNotYourMove              Code = "NOT_YOUR_MOVE"
	CodeInvalidColumn            Code = "INVALID_COLUMN"
	CodeColumnFull               Code = "COLUMN_FULL"
	CodeGameEnded                Code = "GAME_ENDED"
	CodeBoardNotReady            Code = "BOARD_NOT_READY"
)

// Error is a caller-visible rule violation. Two errors match under
// errors.Is when their codes are equal.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrCannotPlayYourself       = newError(CodeCannotPlayYourself, "cannot play yourself")
	ErrChallengeExists          = newError(CodeChallengeExists, "a challenge already exists between these participants")
	ErrChallengeDoesNotExist    = newError(CodeChallengeDoesNotExist, "challenge does not exist")
	ErrGameDoesNotExist         = newError(CodeGameDoesNotExist, "game does not exist")
	ErrCannotAcceptOwnChallenge = newError(CodeCannotAcceptOwnChallenge, "cannot accept your own challenge")
	ErrActiveGameExists         = newError(CodeActiveGameExists, "an active game already exists")
	ErrChallengeNotYetAccepted  = newError(CodeChallengeNotYetAccepted, "challenge not yet accepted")
	ErrNotYourMove              = newError(CodeNotYourMove, "not your move")
	ErrInvalidColumn            = newError(CodeInvalidColumn, "invalid column")
	ErrColumnFull               = newError(CodeColumnFull, "column full")
	ErrGameEnded                = newError(CodeGameEnded, "game ended")
	ErrBoardNotReady            = newError(CodeBoardNotReady, "board not ready")
)

var codes = map[Code]*Error{}

func init() {
	for _, e := range []*Error{
		ErrCannotPlayYourself, ErrChallengeExists, ErrChallengeDoesNotExist,
		ErrGameDoesNotExist, ErrCannotAcceptOwnChallenge, ErrActiveGameExists,
		ErrChallengeNotYetAccepted, ErrNotYourMove, ErrInvalidColumn,
		ErrColumnFull, ErrGameEnded, ErrBoardNotReady,
	} {
		codes[e.Code] = e
	}
}

// CodeOf extracts the code from any error, CodeUnknown if it is not a
// game error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// FromCode returns the sentinel for code, or nil for unknown codes.
func FromCode(code Code) *Error {
	return codes[code]
}
