// Package config loads command configuration from an optional YAML file, a
// .env file and the process environment.
//
// Loading order, lowest precedence first:
//
//  1. config.yml (searched in ./cmd/<service>/, ./config/ and ./)
//  2. explicit env bindings registered with WithEnvBinding
//  3. every environment variable, after the .env file has been loaded,
//     mapped to nested keys (DEEPGRAM_API_KEY -> deepgram.api_key)
//
// The .env file never overrides variables that are already set.
//
// # Usage
//
//	var cfg Config
//	err := config.LoadConfig("transcribe", &cfg, config.WithEnvFile(path))
package config
