// Package hcloud provides a wrapper around the Hetzner Cloud API client with
// retry logic, timeout management, and error classification.
//
// # Architecture
//
// The package is organized into domain-specific modules:
//
//   - client.go: Manager interfaces and shared option types
//   - real_client.go: Client initialization and configuration
//   - operations.go: Generic operations for Delete and Ensure patterns
//   - server.go: Server lifecycle (create, delete, IP readiness)
//   - firewall.go: Firewall rule management
//   - ssh_key.go: SSH key management
//   - volume.go: Volume lifecycle (create, resize, attach, detach)
//   - errors.go: Error classification for retry logic
//   - mock.go: Function-field mock for tests
//
// # Generic Operations
//
// DeleteOperation provides idempotent resource deletion with automatic retry:
//   - Handles resource locking with exponential backoff
//   - Returns success if the resource doesn't exist
//
// EnsureOperation provides get-or-create semantics with optional update and
// validation hooks, so every resource kind shares one control flow.
//
// # Retry and Timeout Configuration
//
// Timeouts and retry parameters are configurable via environment variables:
//
//   - ONEBOX_TIMEOUT_SERVER_CREATE: Server creation timeout (default: 10m)
//   - ONEBOX_TIMEOUT_SERVER_IP: Public IP assignment timeout (default: 90s)
//   - ONEBOX_TIMEOUT_DELETE: Resource deletion timeout (default: 5m)
//   - ONEBOX_TIMEOUT_VOLUME_ACTION: Volume attach/detach/resize timeout (default: 2m)
//   - ONEBOX_RETRY_MAX_ATTEMPTS: Maximum retry attempts (default: 5)
//   - ONEBOX_RETRY_INITIAL_DELAY: Initial retry delay (default: 1s)
package hcloud
