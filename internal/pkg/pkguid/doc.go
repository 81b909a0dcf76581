// Package pkguid provides helpers for generating unique identifiers.
//
// Callers depend on the StringID/NumberID interfaces instead of a concrete
// strategy:
//   - UUID strings mint file identifiers.
//   - Snowflake IDs (numeric, or decimal strings) tag requests for log
//     correlation.
package pkguid
