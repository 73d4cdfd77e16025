// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max
// attempts, initial delay, and maximum delay. It backs Hetzner Cloud API
// calls, SSH connection establishment, and the wait for a server's public
// address after create.
package retry
