// Package naming provides consistent naming functions for Hetzner Cloud resources.
//
// Resource names follow the pattern {stack}-{type} for infrastructure
// (firewalls, SSH keys, volumes) and {stack}-{6char} for servers. The
// random suffix prevents naming conflicts when a replacement server is
// created before the server it replaces is destroyed.
package naming
