// Package validation checks request structs against `validate` tags using
// go-playground/validator and reports failures as a 400 AppError with
// per-field details.
//
//	type Params struct {
//	    Format string `json:"out_format" validate:"omitempty,oneof=txt json"`
//	}
//	if err := validation.Validate(p); err != nil { ... }
package validation
