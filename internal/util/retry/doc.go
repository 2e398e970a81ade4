// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with configurable max attempts,
// initial delay, and maximum delay. It is used for SSH connection
// establishment and external tool invocations that may fail transiently
// (package metadata refresh, git fetch over the network).
package retry
