// Package pkgroutine contains helpers for running background goroutines safely.
//
// The Manager type bounds concurrency, labels every task for logging, collects
// returned errors, and recovers panics so that background work (for example
// archiving raw uploads) cannot crash the process.
package pkgroutine
