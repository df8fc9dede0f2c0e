package cg

import "fmt"

// OperatorError reports a failure of the operator during a solve.
// Iteration is -1 if the failure occurred while computing the initial residual.
type OperatorError struct {
	Iteration int
	Err       error
}

func (e *OperatorError) Error() string {
	if e.Iteration < 0 {
		return fmt.Sprintf("cg: operator failed computing initial residual: %v", e.Err)
	}
	return fmt.Sprintf("cg: operator failed at iteration %d: %v", e.Iteration, e.Err)
}

func (e *OperatorError) Unwrap() error {
	return e.Err
}
