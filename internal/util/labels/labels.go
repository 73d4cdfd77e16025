package labels

// Standard label keys for Hetzner Cloud resources.
const (
	// KeyStack identifies which stack a resource belongs to
	KeyStack = "onebox.dev/stack"

	// KeyResource identifies the resource kind within the stack
	KeyResource = "onebox.dev/resource"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "onebox.dev/managed-by"
)

// Resource values
const (
	ResourceServer   = "server"
	ResourceFirewall = "firewall"
	ResourceSSHKey   = "ssh-key"
	ResourceVolume   = "data-volume"
)

// ManagedBy values
const (
	ManagedByOnebox = "onebox"
)

// Builder provides a fluent interface for building Hetzner Cloud resource labels.
type Builder struct {
	labels map[string]string
}

// NewBuilder creates a label builder with the stack name and manager pre-set.
func NewBuilder(stack string) *Builder {
	return &Builder{
		labels: map[string]string{
			KeyStack:     stack,
			KeyManagedBy: ManagedByOnebox,
		},
	}
}

// WithResource adds a resource kind label (e.g. "server", "firewall").
func (b *Builder) WithResource(kind string) *Builder {
	b.labels[KeyResource] = kind
	return b
}

// Merge adds all labels from the provided map.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		b.labels[k] = v
	}
	return b
}

// Build returns a copy of the labels map.
// Returns a copy to prevent external mutations.
func (b *Builder) Build() map[string]string {
	result := make(map[string]string, len(b.labels))
	for k, v := range b.labels {
		result[k] = v
	}
	return result
}

// SelectorForStack returns a label selector matching all resources in a stack.
func SelectorForStack(stack string) string {
	return KeyStack + "=" + stack
}
