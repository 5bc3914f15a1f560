package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Invalid-argument errors: malformed or out-of-domain input.
	// Surfaced to the caller immediately, never retried.
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrSampleSizeInvalid    = fmt.Errorf("%w: sample size must be positive", ErrInvalidArgument)
	ErrOutcomeCountInvalid  = fmt.Errorf("%w: positive outcomes must be between 0 and sample size", ErrInvalidArgument)
	ErrProbabilityInvalid   = fmt.Errorf("%w: probability must be within [0,1]", ErrInvalidArgument)
	ErrConfidenceInvalid    = fmt.Errorf("%w: confidence level must be within (0,1)", ErrInvalidArgument)
	ErrIterationsInvalid    = fmt.Errorf("%w: iteration count must be positive", ErrInvalidArgument)
	ErrDistributionEmpty    = fmt.Errorf("%w: distribution is empty", ErrInvalidArgument)
	ErrDistributionTooShort = fmt.Errorf("%w: distribution needs at least two values", ErrInvalidArgument)

	// Division errors. A zero comparator risk is a legitimate outcome of valid
	// inputs plus an unlucky draw; it is recoverable and must stay
	// distinguishable from invalid input.
	ErrDivisionUndefined = errors.New("division undefined")
	ErrZeroRiskDivisor   = fmt.Errorf("%w: comparator risk is exactly zero", ErrDivisionUndefined)

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")
)

// Error constructors with context
func NewInvalidArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, field, reason)
}

func NewDivisionUndefinedError(context string) error {
	return fmt.Errorf("%w: %s", ErrZeroRiskDivisor, context)
}

// Error checking helpers
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsDivisionUndefined(err error) bool {
	return errors.Is(err, ErrDivisionUndefined)
}

func IsDeterminismError(err error) bool {
	return errors.Is(err, ErrNonDeterministic) ||
		errors.Is(err, ErrSeedMismatch)
}
