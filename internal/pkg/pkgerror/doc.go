// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// It helps keep error handling consistent by:
//   - Providing sentinel errors that can be checked with errors.Is.
//   - Providing a structured Error type that carries a detail message, type,
//     and code, which is mapped to an HTTP status code at the edge (router).
package pkgerror
