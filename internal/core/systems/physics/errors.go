package physics

import "errors"

var (
	ErrUnknownBody        = errors.New("unknown body id")
	ErrNilBody            = errors.New("body is nil")
	ErrInvalidVector      = errors.New("movement vector is not finite")
	ErrInvalidFluidFactor = errors.New("fluid factor must be at least 1")
	ErrUnknownCollision   = errors.New("unknown collision kind")
)
