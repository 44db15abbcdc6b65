// Package config loads typed configuration structs from environment
// variables.
//
// Every package in the console exposes a Config struct annotated with `env`
// tags; this package parses those structs once per type and caches the
// result, so independent call sites can load the same configuration without
// coordinating.
//
// A .env file in the working directory is loaded once before the first parse,
// which keeps local development setups out of shell profiles.
//
// Usage:
//
//	var cfg session.Config
//	config.MustLoad(&cfg)
package config
