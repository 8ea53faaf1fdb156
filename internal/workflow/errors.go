package workflow

import (
	"errors"
	"fmt"
)

// ErrPrecondition marks failures detected before any call is made.
var ErrPrecondition = errors.New("precondition failed")

var (
	ErrNoFile              = fmt.Errorf("%w: select a file first", ErrPrecondition)
	ErrNoResume            = fmt.Errorf("%w: upload a resume first", ErrPrecondition)
	ErrEmptyJobDescription = fmt.Errorf("%w: enter a job description", ErrPrecondition)
)
