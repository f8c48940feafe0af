package entity

import (
	"errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrConflict          = errors.New("version conflict")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrBadSignature      = errors.New("bad signature")
	ErrAlreadyConfirmed  = errors.New("already confirmed")
	ErrAlreadyCancelled  = errors.New("already cancelled")
	ErrAlreadyFiscalized = errors.New("already fiscalized")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrOperationFailed   = errors.New("operation failed")
	ErrConfig            = errors.New("configuration error")
	ErrFiscalRejected    = errors.New("fiscal receipt rejected")
	ErrFiscalInProgress  = errors.New("fiscalization in progress")
	ErrUnauthenticated   = errors.New("unauthenticated")
)
