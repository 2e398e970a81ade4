package provisioning

import (
	"fmt"
	"strings"

	"github.com/hostprep/hostprep/internal/util/prerequisites"
)

// ValidationError represents a pre-flight validation error or warning.
type ValidationError struct {
	Field    string // Configuration field or tool that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
// Configuration shape was already validated at load time; this phase checks
// the target host itself.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[Validation] Running pre-flight validation...")

	allErrors := validate(ctx)

	var errors []ValidationError
	var warnings []ValidationError
	for _, ve := range allErrors {
		if ve.IsError() {
			errors = append(errors, ve)
		} else {
			warnings = append(warnings, ve)
		}
	}

	for _, warning := range warnings {
		LogValidationWarning(ctx.Observer, vp.Name(), warning.Message)
	}

	if len(errors) > 0 {
		var errMsgs []string
		for _, e := range errors {
			errMsgs = append(errMsgs, e.Error())
		}
		return fmt.Errorf("pre-flight validation failed:\n  %s", strings.Join(errMsgs, "\n  "))
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return nil
}

// validate runs all host checks and returns any errors or warnings.
func validate(ctx *Context) []ValidationError {
	var result []ValidationError

	results := prerequisites.CheckDefault(ctx, ctx.Host, ctx.Config)
	for _, missing := range results.Missing {
		if missing.Required {
			result = append(result, ValidationError{
				Field:    missing.Name,
				Message:  fmt.Sprintf("%s not found on host (%s)", missing.Name, missing.Description),
				Severity: "error",
			})
			continue
		}
		result = append(result, ValidationError{
			Field:    missing.Name,
			Message:  fmt.Sprintf("%s not found yet; the packages phase is expected to provide it", missing.Name),
			Severity: "warning",
		})
	}

	if len(ctx.Config.Packages.Install) == 0 {
		result = append(result, ValidationError{
			Field:    "packages.install",
			Message:  "no packages configured; assuming the host already has everything installed",
			Severity: "warning",
		})
	}

	return result
}
