// Package pkgconfig provides a small abstraction for reading configuration values.
//
// The application expects config values to come from a concrete implementation
// (Viper). Business code depends on the Config interface so it stays easy to
// test and does not care where values come from.
//
// Values are resolved in this order: process environment (keys upper-cased,
// dots replaced by underscores), a .env file next to the working directory,
// then the YAML config file.
package pkgconfig
