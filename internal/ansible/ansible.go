// Package ansible invokes ansible-playbook against the generated
// inventory. The pass runs with host key checking disabled (the target
// address is freshly allocated, there is no prior key to verify) and a
// bounded SSH retry count for transient connection drops.
package ansible

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sort"

	"github.com/kballard/go-shellquote"
)

// DefaultBin is the playbook executable resolved from PATH.
const DefaultBin = "ansible-playbook"

// DefaultSSHRetries bounds Ansible's own per-task SSH reconnects.
const DefaultSSHRetries = 3

// Params describes one configuration pass.
type Params struct {
	Playbook   string            // playbook path
	Inventory  string            // generated inventory path
	PrivateKey string            // SSH private key path, optional
	ExtraVars  map[string]string // passed through as -e key=value
	Retries    int               // ANSIBLE_SSH_RETRIES, DefaultSSHRetries when zero
	Verbose    bool              // adds -v
}

// RunError reports a pass that exited non-zero, with its captured output
// so the operator can diagnose without re-running.
type RunError struct {
	ExitCode int
	Output   string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("ansible-playbook exited with code %d", e.ExitCode)
}

// Runner abstracts the configuration pass so orchestration can be tested
// without a real Ansible install.
type Runner interface {
	Run(ctx context.Context, p Params) error
}

// PlaybookRunner executes the real ansible-playbook binary, streaming its
// output while also capturing it for error reporting.
type PlaybookRunner struct {
	Bin    string    // executable, DefaultBin when empty
	Dir    string    // working directory for the process
	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
}

// Run executes the pass. A non-zero exit returns a *RunError carrying the
// exit code and combined output.
func (r *PlaybookRunner) Run(ctx context.Context, p Params) error {
	if p.Playbook == "" {
		return fmt.Errorf("ansible params require a playbook")
	}
	if p.Inventory == "" {
		return fmt.Errorf("ansible params require an inventory")
	}

	bin := r.Bin
	if bin == "" {
		bin = DefaultBin
	}
	args := buildArgs(p)

	retries := p.Retries
	if retries <= 0 {
		retries = DefaultSSHRetries
	}

	log.Printf("Running %s", shellquote.Join(append([]string{bin}, args...)...))

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(),
		"ANSIBLE_HOST_KEY_CHECKING=False",
		fmt.Sprintf("ANSIBLE_SSH_RETRIES=%d", retries),
	)

	var captured bytes.Buffer
	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	cmd.Stdout = io.MultiWriter(stdout, &captured)
	cmd.Stderr = io.MultiWriter(stderr, &captured)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &RunError{ExitCode: exitErr.ExitCode(), Output: captured.String()}
	}
	return fmt.Errorf("failed to run %s: %w", bin, err)
}

// Available reports whether the playbook executable can be found in PATH.
func (r *PlaybookRunner) Available() error {
	bin := r.Bin
	if bin == "" {
		bin = DefaultBin
	}
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", bin, err)
	}
	return nil
}

func buildArgs(p Params) []string {
	args := []string{"-i", p.Inventory}
	if p.PrivateKey != "" {
		args = append(args, "--private-key", p.PrivateKey)
	}
	for _, k := range sortedKeys(p.ExtraVars) {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, p.ExtraVars[k]))
	}
	if p.Verbose {
		args = append(args, "-v")
	}
	return append(args, p.Playbook)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
