package tunespec

import "errors"

var (
	ErrNoKernel      = errors.New("tunespec: missing kernel section")
	ErrNoParameters  = errors.New("tunespec: no parameters declared")
	ErrBadConstraint = errors.New("tunespec: malformed constraint expression")
	ErrBadModifier   = errors.New("tunespec: malformed size modifier")
	ErrBadArgument   = errors.New("tunespec: malformed kernel argument")
	ErrBadBudget     = errors.New("tunespec: malformed budget")
)
