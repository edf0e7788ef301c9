package executor

import (
	"fmt"

	"go.uber.org/multierr"

	"thumper/pkg/model"
)

// ActionError pairs a failed action with its cause.
type ActionError struct {
	Action model.Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action.Kind, e.Action.Path, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// PlanError aggregates every action failure from one executor run.
// A zero-value PlanError (Count() == 0) means full success.
type PlanError struct {
	errs []*ActionError
}

func (p *PlanError) add(a model.Action, err error) {
	p.errs = append(p.errs, &ActionError{Action: a, Err: err})
}

// Count reports how many actions failed.
func (p *PlanError) Count() int {
	if p == nil {
		return 0
	}
	return len(p.errs)
}

// Errors returns the individual action failures.
func (p *PlanError) Errors() []*ActionError {
	if p == nil {
		return nil
	}
	return p.errs
}

func (p *PlanError) Error() string {
	combined := error(nil)
	for _, e := range p.errs {
		combined = multierr.Append(combined, e)
	}
	return fmt.Sprintf("%d action(s) failed: %v", len(p.errs), combined)
}

// AsError returns p as an error, or nil if no actions failed, so callers
// can use the usual `if err := ...; err != nil` idiom.
func (p *PlanError) AsError() error {
	if p.Count() == 0 {
		return nil
	}
	return p
}
