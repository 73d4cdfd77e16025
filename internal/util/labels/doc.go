// Package labels provides consistent labeling for Hetzner Cloud resources.
//
// All labels use the onebox.dev domain prefix and follow a builder pattern
// for constructing label sets with stack name, resource kind, and manager
// identification.
package labels
