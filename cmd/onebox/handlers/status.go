package handlers

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/onebox-dev/onebox/internal/probe"
)

// statusProbeTimeout bounds the single reachability attempt.
const statusProbeTimeout = 10 * time.Second

// Status prints the recorded stack, checks whether the server answers
// SSH right now, and lists the deployed services.
func Status(ctx context.Context, configPath string) error {
	cfg, rec, err := loadStack(ctx, configPath)
	if err != nil {
		return err
	}

	fmt.Print(renderStatus(cfg.Name, cfg.Location, rec))

	if rec.Server == nil {
		return nil
	}

	// One attempt only: status reports, it does not wait.
	dial, err := newProbeDial(cfg)
	if err != nil {
		return err
	}
	prober := &probe.Prober{
		Addr:        net.JoinHostPort(rec.Server.Addr, strconv.Itoa(cfg.SSH.Port)),
		MaxAttempts: 1,
		Timeout:     statusProbeTimeout,
		Delay:       time.Second,
		Dial:        dial,
	}
	_, probeErr := prober.Run(ctx)
	fmt.Print(renderReachability(probeErr))
	if probeErr != nil {
		return nil
	}

	client, err := newSSHClient(cfg, rec.Server.Addr)
	if err != nil {
		return err
	}
	out, err := client.Execute(ctx, fmt.Sprintf("cd %s && docker compose ps", appDir))
	if err != nil {
		fmt.Printf("Services: unavailable (%v)\n", err)
		return nil
	}
	fmt.Printf("Services:\n%s\n", out)
	return nil
}
