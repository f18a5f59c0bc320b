package canonical

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tidwall/jsonc"

	"github.com/ruleweaver/ruleweaver/internal/feature"
	"github.com/ruleweaver/ruleweaver/internal/fsx"
	"github.com/ruleweaver/ruleweaver/internal/target"
)

// ValidationResult is the outcome of a structural check. Validation
// never panics and never aborts a batch; callers inspect the result.
type ValidationResult struct {
	Success bool
	Error   error
}

// Valid returns a passing result.
func Valid() ValidationResult {
	return ValidationResult{Success: true}
}

// Invalid returns a failing result carrying err.
func Invalid(err error) ValidationResult {
	return ValidationResult{Success: false, Error: err}
}

// Validate checks the document's frontmatter against its domain schema.
func (d *Document) Validate() ValidationResult {
	switch d.Domain {
	case feature.MCP:
		if err := validateJSONBody(d.Body); err != nil {
			return Invalid(fmt.Errorf("%s: %w", d.Relative(), err))
		}
		return Valid()
	case feature.Subagents:
		if err := d.Frontmatter.validate(validation.Field(&d.Frontmatter.Description, validation.Required)); err != nil {
			return Invalid(fmt.Errorf("%s: %w", d.Relative(), err))
		}
		return Valid()
	default:
		if err := d.Frontmatter.validate(); err != nil {
			return Invalid(fmt.Errorf("%s: %w", d.Relative(), err))
		}
		return Valid()
	}
}

// validate applies the shared frontmatter rules plus any domain extras.
func (f *Frontmatter) validate(extra ...*validation.FieldRules) error {
	rules := []*validation.FieldRules{
		validation.Field(&f.Targets, validation.Each(validation.By(checkTargetRef))),
		validation.Field(&f.Globs, validation.Each(validation.By(checkGlob))),
	}
	rules = append(rules, extra...)
	return validation.ValidateStruct(f, rules...)
}

// checkTargetRef accepts the wildcard or any supported tool name.
func checkTargetRef(value any) error {
	s, _ := value.(string)
	if s == target.Wildcard {
		return nil
	}
	if _, err := target.Parse(s); err != nil {
		return err
	}
	return nil
}

// checkGlob accepts well-formed doublestar patterns.
func checkGlob(value any) error {
	s, _ := value.(string)
	if !fsx.ValidPattern(s) {
		return fmt.Errorf("invalid glob pattern: %q", s)
	}
	return nil
}

// validateJSONBody accepts plain JSON or JSONC objects.
func validateJSONBody(body string) error {
	var v map[string]any
	if err := json.Unmarshal(jsonc.ToJSON([]byte(body)), &v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
