package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/onebox-dev/onebox/internal/provision"
	"github.com/onebox-dev/onebox/internal/state"
)

// Destroy handles the destroy command.
//
// It deletes every recorded resource from Hetzner Cloud in reverse
// creation order and clears the state record. A partial failure leaves
// the surviving resources in the record, so a later destroy resumes.
func Destroy(ctx context.Context, configPath string, autoApprove bool) error {
	cfg, err := loadConfig(configPath)
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

	if !rec.HasResources() {
		fmt.Printf("Nothing recorded for stack %s.\n", cfg.Name)
		return nil
	}

	printDestroyPreview(rec)
	if !autoApprove && !askApproval(fmt.Sprintf("Destroy stack %s?", cfg.Name)) {
		fmt.Println("Destroy canceled.")
		return nil
	}

	// Destroy works entirely off the record; it never needs the key
	// material or the full resource spec.
	spec := &provision.Spec{Stack: cfg.Name}

	client := newInfraClient(cfg.HCloudToken)
	prov := newProvisioner(client, provision.ConsoleObserver{})

	destroyErr := prov.Destroy(ctx, spec, rec)
	if saveErr := saveRecord(ctx, store, rec); saveErr != nil {
		if destroyErr != nil {
			log.Printf("State not saved: %v", saveErr)
			return destroyErr
		}
		return saveErr
	}
	if destroyErr != nil {
		return destroyErr
	}

	fmt.Printf("Stack %s destroyed.\n", cfg.Name)
	return nil
}

// printDestroyPreview lists what is about to be deleted.
func printDestroyPreview(rec *state.Record) {
	fmt.Println("\nThe following resources will be deleted:")
	if rec.Server != nil {
		fmt.Printf("  - server %s (%s)\n", rec.Server.Name, rec.Server.Addr)
	}
	if rec.Volume != nil {
		fmt.Printf("  - volume %s (%d GB)\n", rec.Volume.Name, rec.Volume.SizeGB)
	}
	if rec.Firewall != nil {
		fmt.Printf("  - firewall %s\n", rec.Firewall.Name)
	}
	if rec.SSHKey != nil {
		fmt.Printf("  - ssh key %s\n", rec.SSHKey.Name)
	}
	fmt.Println()
}
