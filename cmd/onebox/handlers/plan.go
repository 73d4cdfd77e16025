package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/onebox-dev/onebox/internal/config"
	"github.com/onebox-dev/onebox/internal/converge"
	"github.com/onebox-dev/onebox/internal/fingerprint"
	"github.com/onebox-dev/onebox/internal/provision"
	"github.com/onebox-dev/onebox/internal/state"
)

// Plan previews the changes apply would make without making any. It
// diffs the configuration against the recorded state and the live cloud
// resources, then reports whether the configuration pass would re-run.
func Plan(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
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
	return printConvergeOutlook(cfg, rec, plan)
}

// printConvergeOutlook reports whether an apply would re-run the
// configuration pass, and why.
func printConvergeOutlook(cfg *config.Config, rec *state.Record, plan *provision.Plan) error {
	if plan.Find(provision.ResourceServer) != nil {
		fmt.Println("Configuration pass: will run, the server changes")
		return nil
	}
	if rec.Server == nil {
		// An empty record always plans a server create, so this branch
		// is unreachable unless the record was edited by hand.
		return nil
	}

	fps, err := fingerprint.Collect(".", cfg.Deploy.TrackedPaths())
	if err != nil {
		return err
	}
	decision := converge.Decide(rec.Converge, converge.Inputs{
		InstanceID:   strconv.FormatInt(rec.Server.ID, 10),
		Addr:         rec.Server.Addr,
		Fingerprints: fps,
	})
	if decision.Fire {
		fmt.Printf("Configuration pass: will run (%s)\n", decision.Summary())
	} else {
		fmt.Println("Configuration pass: up to date")
	}
	return nil
}
