// Package config loads pipelayer Settings.
//
// Values come from, in increasing precedence, a config.yml found next to
// the binary's cmd directory (or given with WithConfigFile), a .env file
// and PIPELAYER_ environment variables. Underscores in a variable name
// may stand for nesting, so PIPELAYER_LOGGING_LEVEL sets logging.level and
// PIPELAYER_TRACING_SAMPLE_RATE sets tracing.sample_rate.
//
//	var s config.Settings
//	if err := config.Load("pipelayer", &s); err != nil {
//	    return err
//	}
//
// Load applies defaults and validates; failures carry INVALID_CONFIG.
package config
