package types

import "errors"

var (
	// ErrEnvContract is returned when the environment produces malformed
	// shapes or a mask that disallows every action
	ErrEnvContract = errors.New("environment contract violation")
	// ErrNumericalInstability is returned on NaN/Inf losses or a degenerate
	// priority distribution
	ErrNumericalInstability = errors.New("numerical instability")
	// ErrCheckpointIO is returned when parameter blobs cannot be written or
	// read back
	ErrCheckpointIO = errors.New("checkpoint io failure")
)
