// Package config provides configuration management for logq.
//
// Configuration is read from a YAML file, completed with defaults,
// overridden by environment variables and validated.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("logq.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("logq.yaml")
//
//  3. Tolerating a missing file (used by the CLI):
//     cfg, found, err := config.LoadConfigOrDefault("logq.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LOGQ_SECTION_FIELD:
//
//   - LOGQ_CATALOG_PATH overrides catalog.path
//   - LOGQ_QUERY_MAX_CONSTRAINTS overrides query.max_constraints
//   - LOGQ_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
//	if err := config.Initialize("logq.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// # Example Configuration
//
//	query:
//	  max_constraints: 64
//	  max_expression_length: 4096
//
//	catalog:
//	  path: ./queries.yaml
//	  watch: true
//	  debounce: 250ms
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	    listen_address: "127.0.0.1:9464"
//	  tracing:
//	    enabled: true
//	    endpoint: "otel-collector:4317"
//	    sampler: always
package config
