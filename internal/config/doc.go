// Package config defines the onebox.yaml configuration structure,
// loading, defaulting and validation.
package config
