// Package provision converges Hetzner Cloud infrastructure on the desired
// Spec derived from configuration.
//
// Plan diffs the Spec against the record persisted by the previous apply,
// and against the cloud itself, so resources deleted out of band show up
// as creates. Apply executes the plan in dependency order: ssh key,
// firewall, volume, server, inventory. Server attribute changes replace
// the server create-before-destroy: the replacement is booted and the
// inventory rewritten to its address before the old server is deleted.
// The record is updated as each resource completes, so a failed apply
// leaves a record of everything that did finish.
package provision
