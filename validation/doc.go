// Package validation checks configuration and request values before they
// reach a child process or a remote service.
//
// Struct tag validation uses go-playground/validator with the mapstructure
// key as the reported field name, so errors point at the config key a user
// actually wrote:
//
//	type Options struct {
//	    Model    string `mapstructure:"model" validate:"required"`
//	    Language string `mapstructure:"language" validate:"required,langtag"`
//	}
//	err := validation.Validate(opts)
//
// Programmatic checks collect field errors and convert them to one
// INVALID_INPUT AppError:
//
//	v := validation.New()
//	v.Required("title", title).NotePath("target", target)
//	err := v.Err()
package validation
