// Package keygen generates RSA key pairs for SSH authentication.
//
// Keys are produced in PEM format (private) and OpenSSH authorized_keys
// format (public), suitable for uploading to Hetzner Cloud as SSH keys.
// The MD5 fingerprint helper matches the format Hetzner Cloud reports for
// uploaded keys.
package keygen
