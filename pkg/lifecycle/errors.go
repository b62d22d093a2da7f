package lifecycle

import (
	"fmt"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
)

// StepError is returned when a deployment step fails.
func StepError(step string, err error) error {
	msg := `Deployment step <em>%s</em> failed

Steps that finished before it are not reverted.
Fix the cause and run <em>flasky deploy</em> again,
all steps are safe to repeat.`
	vars := []any{step}
	return &gn.Error{
		Code: errcode.DeployStepError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("deploy step %s: %w", step, err),
	}
}
