// Package config handles configuration loading for deskhub.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion. The package provides validation and sensible defaults for
// session handling.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	data:
//	  accounts_path: "${DESKHUB_ACCOUNTS}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "127.0.0.1:8080"
//	  base_url: "https://desk.example.com"
//
// Data paths:
//
//	data:
//	  docs_dir: "./data"
//	  accounts_path: "./users.yml"
//	  sessions_path: "./deskhub.db"
//
// Session handling:
//
//	session:
//	  cookie_name: "deskhub_session"
//	  duration: "168h"
//	  purge_interval: "1h"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
//	cfg, err := config.Load("./config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
