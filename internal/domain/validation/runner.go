// Package validation runs independent business rules against the same
// snapshot and reports every violation together.
package validation

import (
	"errors"

	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// Rule is a single business check, already bound to its inputs.
// It returns nil when satisfied, a *shared.BusinessError when violated,
// and any other error when the check itself could not run.
type Rule func() error

// Validator groups the rules guarding one operation.
type Validator interface {
	Rules() []Rule
}

// Rules adapts a plain slice of rules to the Validator interface.
type Rules []Rule

// Rules implements Validator.
func (r Rules) Rules() []Rule {
	return r
}

// Run executes every rule in order. Business violations are collected into
// a *shared.MultipleBusinessErrors; any other error aborts the run and is
// returned as is.
func Run(rules ...Rule) error {
	var violations []*shared.BusinessError
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		err := rule()
		if err == nil {
			continue
		}
		var be *shared.BusinessError
		if !errors.As(err, &be) {
			return err
		}
		violations = append(violations, be)
	}
	if len(violations) == 0 {
		return nil
	}
	return &shared.MultipleBusinessErrors{Errors: violations}
}

// RunValidators runs the rules of all validators as one pass.
func RunValidators(validators ...Validator) error {
	var rules []Rule
	for _, v := range validators {
		if v == nil {
			continue
		}
		rules = append(rules, v.Rules()...)
	}
	return Run(rules...)
}

// When returns a rule that only runs check if cond holds.
func When(cond bool, check Rule) Rule {
	if !cond {
		return nil
	}
	return check
}

// Require returns a rule raising err when ok is false.
func Require(ok bool, err *shared.BusinessError) Rule {
	return func() error {
		if ok {
			return nil
		}
		return err
	}
}
