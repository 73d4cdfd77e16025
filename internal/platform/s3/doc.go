// Package s3 provides a client for S3-compatible object storage, used as the
// remote state backend. Tested against Hetzner Object Storage; any
// S3-compatible endpoint (AWS S3, MinIO) works.
package s3
