// Package state persists the last-applied view of a stack.
//
// The record is the source of truth for diffing: plan compares the desired
// configuration against what was recorded by the previous apply, and the
// convergence trigger compares current fingerprints against the ones
// recorded by the last configuration run. Records are stored as JSON,
// either on local disk or in an S3-compatible bucket.
package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/onebox-dev/onebox/internal/fingerprint"
)

// CurrentVersion is the record format version written by this build.
const CurrentVersion = 1

// Record is the persisted last-applied state of a stack.
type Record struct {
	Version   int       `json:"version"`
	Lineage   string    `json:"lineage"`
	Serial    int       `json:"serial"`
	UpdatedAt time.Time `json:"updated_at"`

	SSHKey    *SSHKeyRecord    `json:"ssh_key,omitempty"`
	Firewall  *FirewallRecord  `json:"firewall,omitempty"`
	Volume    *VolumeRecord    `json:"volume,omitempty"`
	Server    *ServerRecord    `json:"server,omitempty"`
	Inventory *InventoryRecord `json:"inventory,omitempty"`
	Converge  *ConvergeRecord  `json:"converge,omitempty"`
}

// SSHKeyRecord captures the uploaded SSH key.
type SSHKeyRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
}

// FirewallRecord captures the applied firewall and a digest of its rules.
type FirewallRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	RulesDigest string `json:"rules_digest"`
}

// VolumeRecord captures the attached data volume.
type VolumeRecord struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	SizeGB int    `json:"size_gb"`
	Format string `json:"format,omitempty"`
}

// ServerRecord captures the applied server and the attributes whose change
// forces a replacement.
type ServerRecord struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Addr           string `json:"addr"`
	ServerType     string `json:"server_type"`
	Image          string `json:"image"`
	Location       string `json:"location"`
	UserDataDigest string `json:"user_data_digest,omitempty"`
}

// InventoryRecord captures the generated inventory artifact.
type InventoryRecord struct {
	Path string `json:"path"`
	Addr string `json:"addr"`
	User string `json:"user"`
}

// ConvergeRecord captures the last successful configuration run. The
// trigger fires when the current instance ID or fingerprint set differs
// from this record.
type ConvergeRecord struct {
	InstanceID   string          `json:"instance_id"`
	Addr         string          `json:"addr"`
	Fingerprints fingerprint.Set `json:"fingerprints"`
	RunAt        time.Time       `json:"run_at"`
}

// New returns an empty record with a fresh lineage.
func New() *Record {
	return &Record{
		Version: CurrentVersion,
		Lineage: uuid.NewString(),
	}
}

// Bump advances the serial before a save, so every persisted revision
// of the record is distinguishable.
func (r *Record) Bump() {
	r.Serial++
	r.UpdatedAt = time.Now().UTC()
}

// HasResources reports whether any provisioned resource is recorded.
func (r *Record) HasResources() bool {
	return r.SSHKey != nil || r.Firewall != nil || r.Volume != nil || r.Server != nil
}

// ClearResources drops all resource records but keeps lineage and serial,
// so a destroy leaves an auditable empty record behind.
func (r *Record) ClearResources() {
	r.SSHKey = nil
	r.Firewall = nil
	r.Volume = nil
	r.Server = nil
	r.Inventory = nil
	r.Converge = nil
}
