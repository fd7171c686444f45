// Package validation checks settings, request bodies and flag values.
//
// Struct tag validation backs the config loader and the REST adapter:
//
//	type Settings struct {
//	    Name string `mapstructure:"name" validate:"required"`
//	}
//	err := validation.Validate(settings)
//
// Field names in errors follow the mapstructure (then json) tag, so a
// failure reads "tracing.sample_rate: must be at most 1".
//
// Loose values use the collecting Validator:
//
//	err := validation.New().
//	    OneOf("format", format, []string{"json", "yaml", "dot"}).
//	    Err()
package validation
