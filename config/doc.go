// Package config loads service configuration from a YAML file, an optional
// .env file and environment variables using viper.
//
// Every key reachable through mapstructure tags can be overridden by an
// environment variable named after its upper-cased path with dots replaced
// by underscores (server.port -> SERVER_PORT).
//
//	var cfg app.Config
//	if err := config.Load("transcriptiond", &cfg); err != nil { ... }
package config
