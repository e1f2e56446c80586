// Package config provides configuration management for the chrest command.
//
// # Overview
//
// The config package uses Viper to load configuration from YAML files and
// environment variables. The file lives at ~/.chrest/config.yaml and is
// created with defaults on first use.
//
// # Environment Variables
//
// Values can be overridden with the CHREST_ prefix; nested keys are joined
// with underscores.
//
// Examples:
//   - CHREST_MODEL_DISCRIMINATION_TIME=5000
//   - CHREST_MODEL_STM_CAPACITY_VISUAL=7
//   - CHREST_LOGGING_LEVEL=debug
//   - CHREST_TRACE_ENABLED=false
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	model := chrest.New(cfg.Model.ToParams(), 0)
package config
