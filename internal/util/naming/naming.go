package naming

import (
	"fmt"

	"github.com/google/uuid"
)

// Naming functions for stack resources.
// All Hetzner Cloud resources follow consistent naming patterns to enable
// easy identification and cleanup.

func SSHKey(stack string) string {
	return fmt.Sprintf("%s-ssh", stack)
}

func Firewall(stack string) string {
	return stack
}

func Volume(stack string) string {
	return fmt.Sprintf("%s-data", stack)
}

// Server builds a server name from the stack name and a generation suffix.
// The suffix keeps a replacement server's name distinct from the server it
// replaces, so both can exist during a create-before-destroy swap.
func Server(stack, suffix string) string {
	return fmt.Sprintf("%s-%s", stack, suffix)
}

// Suffix returns a fresh 6-character server generation suffix.
func Suffix() string {
	return uuid.NewString()[:6]
}
