// Package inventory generates the Ansible inventory artifact that maps
// the stack's group to the server's public address and login identity.
package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Host describes the single playbook target.
type Host struct {
	Group   string // INI group name, usually the stack name
	Addr    string // public IPv4
	User    string // login identity
	KeyPath string // private key file passed to ansible
}

// Render produces the INI inventory text for h.
func Render(h Host) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", h.Group)
	fmt.Fprintf(&b, "%s ansible_user=%s", h.Addr, h.User)
	if h.KeyPath != "" {
		fmt.Fprintf(&b, " ansible_ssh_private_key_file=%s", h.KeyPath)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "[%s:vars]\n", h.Group)
	b.WriteString("ansible_python_interpreter=/usr/bin/python3\n")
	return b.String()
}

// Write renders and persists the inventory at path, creating parent
// directories as needed.
func Write(path string, h Host) error {
	if h.Group == "" || h.Addr == "" || h.User == "" {
		return fmt.Errorf("inventory host requires group, addr and user")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create inventory directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(Render(h)), 0o644); err != nil {
		return fmt.Errorf("failed to write inventory %s: %w", path, err)
	}
	return nil
}

// RecordedAddr returns the host address in an existing inventory file, or
// "" when the file does not exist. The configuration pass uses it to
// verify the artifact points at the current server, not a replaced one.
func RecordedAddr(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read inventory %s: %w", path, err)
	}

	inVars := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";"):
			continue
		case strings.HasPrefix(line, "["):
			inVars = strings.HasSuffix(strings.TrimSuffix(line, "]"), ":vars")
		case !inVars:
			return strings.Fields(line)[0], nil
		}
	}
	return "", nil
}
