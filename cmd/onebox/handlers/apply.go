// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/onebox-dev/onebox/internal/ansible"
	"github.com/onebox-dev/onebox/internal/config"
	"github.com/onebox-dev/onebox/internal/converge"
	"github.com/onebox-dev/onebox/internal/fingerprint"
	"github.com/onebox-dev/onebox/internal/platform/hcloud"
	"github.com/onebox-dev/onebox/internal/probe"
	"github.com/onebox-dev/onebox/internal/provision"
	"github.com/onebox-dev/onebox/internal/state"
	"github.com/onebox-dev/onebox/internal/ui/tui"
	"github.com/onebox-dev/onebox/internal/util/keygen"
	"github.com/onebox-dev/onebox/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newInfraClient creates a new infrastructure client.
	newInfraClient = func(token string) hcloud.InfrastructureManager {
		return hcloud.NewRealClient(token)
	}

	// newProvisioner creates the provisioner driving plan and apply.
	newProvisioner = func(client hcloud.InfrastructureManager, observer provision.Observer) *provision.Provisioner {
		return provision.New(client, observer)
	}

	// newAnsibleRunner creates the playbook runner. out is nil outside
	// the TUI, letting the runner default to the process streams.
	newAnsibleRunner = func(out io.Writer) ansible.Runner {
		return &ansible.PlaybookRunner{Stdout: out, Stderr: out}
	}

	// newProbeDial builds the SSH dial used by the readiness probe.
	newProbeDial = defaultProbeDial

	// checkDefaultPrereqs runs required prerequisite checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// checkAllPrereqs runs required and optional prerequisite checks.
	checkAllPrereqs = prerequisites.CheckAll

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile

	// generateKeyPair creates new SSH key material.
	generateKeyPair = func() (*keygen.KeyPair, error) {
		return keygen.GenerateRSAKeyPair(keygen.DefaultBits)
	}

	// stdoutIsTerminal reports whether stdout is an interactive terminal.
	stdoutIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// Apply provisions the stack and runs the configuration pass when needed.
//
// The workflow:
//  1. Load and validate the stack configuration
//  2. Ensure SSH key material exists, generating a pair on first use
//  3. Plan infrastructure changes against the recorded state
//  4. Ask for confirmation unless the plan is empty or auto-approved
//  5. Execute the plan, persisting the record as resources change hands
//  6. Re-run the Ansible playbook if the server or a tracked file changed,
//     but only after the server answers an SSH handshake
//
// The state record is saved even when a step fails, so a later apply
// resumes from what actually exists instead of re-creating it.
func Apply(ctx context.Context, configPath string, autoApprove bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := checkPrerequisites(); err != nil {
		return err
	}

	if err := ensureKeyPair(cfg); err != nil {
		return err
	}

	spec, err := buildSpec(cfg)
	if err != nil {
		return err
	}

	store, err := newStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	rec, err := state.LoadOrNew(ctx, store)
	if err != nil {
		return err
	}

	client := newInfraClient(cfg.HCloudToken)
	prov := newProvisioner(client, nil)

	plan, err := prov.Plan(ctx, spec, rec)
	if err != nil {
		return err
	}

	printPlan(plan)
	if !plan.Empty() && !autoApprove {
		if !askApproval("Apply these changes?") {
			fmt.Println("Apply canceled.")
			return nil
		}
	}

	if stdoutIsTerminal() {
		return applyWithTUI(ctx, cfg, spec, rec, store, client, plan)
	}
	return applyPlain(ctx, cfg, spec, rec, store, client, plan)
}

// applyPlain executes the confirmed plan with plain log output.
func applyPlain(ctx context.Context, cfg *config.Config, spec *provision.Spec, rec *state.Record, store state.Store, client hcloud.InfrastructureManager, plan *provision.Plan) error {
	prov := newProvisioner(client, provision.ConsoleObserver{})
	if err := runApply(ctx, cfg, spec, rec, store, prov, plan, applyEvents{}); err != nil {
		return err
	}
	printApplySuccess(cfg, rec)
	return nil
}

// applyWithTUI executes the confirmed plan under the progress dashboard.
func applyWithTUI(ctx context.Context, cfg *config.Config, spec *provision.Spec, rec *state.Record, store state.Store, client hcloud.InfrastructureManager, plan *provision.Plan) error {
	err := tui.RunApply(cfg.Name, cfg.Location, func(ch chan<- tea.Msg) error {
		// The TUI owns the terminal; route stray log output into its
		// activity feed for the duration.
		logOut := log.Writer()
		log.SetOutput(&msgWriter{ch: ch})
		defer log.SetOutput(logOut)

		ch <- tui.PhaseMsg{Phase: "plan", Done: true}

		obs := &tuiObserver{ch: ch}
		prov := newProvisioner(client, obs)
		ev := applyEvents{
			addr:   func(addr string) { ch <- tui.AddrMsg{Addr: addr} },
			phase:  func(name string) { ch <- tui.PhaseMsg{Phase: name} },
			output: &msgWriter{ch: ch},
		}
		return runApply(ctx, cfg, spec, rec, store, prov, plan, ev)
	})
	if err != nil {
		return err
	}
	printApplySuccess(cfg, rec)
	return nil
}

// applyEvents carries the optional progress callbacks of one apply run.
// The zero value is valid and reports nothing.
type applyEvents struct {
	addr   func(addr string)
	phase  func(name string)
	output io.Writer
}

// runApply is the shared core of the plain and TUI apply paths: execute
// the plan, persist the record, then decide whether the configuration
// pass must run and run it.
func runApply(ctx context.Context, cfg *config.Config, spec *provision.Spec, rec *state.Record, store state.Store, prov *provision.Provisioner, plan *provision.Plan, ev applyEvents) error {
	applyErr := prov.ApplyPlan(ctx, spec, rec, plan)
	if !plan.Empty() {
		if saveErr := saveRecord(ctx, store, rec); saveErr != nil {
			if applyErr != nil {
				log.Printf("State not saved: %v", saveErr)
				return applyErr
			}
			return saveErr
		}
	}
	if applyErr != nil {
		return applyErr
	}

	if rec.Server == nil {
		return fmt.Errorf("no server recorded after apply")
	}
	if ev.addr != nil {
		ev.addr(rec.Server.Addr)
	}

	fps, err := fingerprint.Collect(".", cfg.Deploy.TrackedPaths())
	if err != nil {
		return err
	}
	cur := converge.Inputs{
		InstanceID:   strconv.FormatInt(rec.Server.ID, 10),
		Addr:         rec.Server.Addr,
		Fingerprints: fps,
	}

	decision := converge.Decide(rec.Converge, cur)
	log.Printf("Configuration check: %s", decision.Summary())
	if !decision.Fire {
		return nil
	}

	trigger, err := newTrigger(cfg, cur.Addr, ev.output)
	if err != nil {
		return err
	}
	trigger.OnPhase = ev.phase

	result, err := trigger.Run(ctx, cur)
	if err != nil {
		return err
	}
	rec.Converge = result
	return saveRecord(ctx, store, rec)
}

// newTrigger wires the readiness probe and the playbook runner for the
// target address.
func newTrigger(cfg *config.Config, addr string, out io.Writer) (*converge.Trigger, error) {
	dial, err := newProbeDial(cfg)
	if err != nil {
		return nil, err
	}
	return &converge.Trigger{
		Probe: &probe.Prober{
			Addr:         net.JoinHostPort(addr, strconv.Itoa(cfg.SSH.Port)),
			InitialDelay: cfg.Probe.InitialDelay,
			MaxAttempts:  cfg.Probe.MaxAttempts,
			Timeout:      cfg.Probe.Timeout,
			Delay:        cfg.Probe.Delay,
			Dial:         dial,
		},
		Runner: newAnsibleRunner(out),
		Params: ansible.Params{
			Playbook:   cfg.Deploy.Playbook,
			Inventory:  cfg.Deploy.Inventory,
			PrivateKey: cfg.SSH.PrivateKey,
			ExtraVars:  cfg.Deploy.ExtraVars,
			Retries:    cfg.Deploy.Retries,
			Verbose:    cfg.Deploy.Verbose,
		},
	}, nil
}

// printPlan renders one line per change, then the counts.
func printPlan(plan *provision.Plan) {
	fmt.Println()
	for _, change := range plan.Changes {
		fmt.Printf("  %s\n", change.String())
	}
	if !plan.Empty() {
		fmt.Println()
	}
	fmt.Println(plan.Summary())
}

// printApplySuccess outputs the final state and how to reach the server.
func printApplySuccess(cfg *config.Config, rec *state.Record) {
	fmt.Printf("\nStack %s is ready.\n", cfg.Name)
	if rec.Server != nil {
		fmt.Printf("  Server: %s at %s\n", rec.Server.Name, rec.Server.Addr)
		fmt.Printf("  Shell:  onebox ssh\n")
	}
	if rec.Converge != nil {
		fmt.Printf("  Configured: %s\n", rec.Converge.RunAt.Format(time.RFC3339))
	}
}

// checkPrerequisites verifies required client tools are available.
func checkPrerequisites() error {
	results := checkDefaultPrereqs()

	for _, r := range results.Results {
		if r.Found {
			version := r.Version
			if version == "" {
				version = "unknown version"
			}
			log.Printf("Found %s (%s)", r.Tool.Name, version)
		}
	}

	if err := results.Error(); err != nil {
		return fmt.Errorf("prerequisites check failed: %w", err)
	}
	return nil
}
