// Package probe implements the bounded SSH readiness probe that gates
// configuration runs.
//
// A freshly created server needs time to boot before sshd accepts
// connections. The prober waits a fixed initial delay, then attempts an
// SSH handshake plus acknowledgement command up to MaxAttempts times,
// each attempt bounded by Timeout and separated by Delay. Total runtime
// is therefore bounded by InitialDelay + MaxAttempts*(Timeout+Delay).
// Exhausting the attempt budget is a hard failure carrying the target
// address and attempt count.
package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// Defaults tuned for Hetzner Cloud boot times. A fresh server is usually
// reachable 20-40s after create, cloud-init user data can push that higher.
const (
	DefaultInitialDelay = 15 * time.Second
	DefaultMaxAttempts  = 20
	DefaultTimeout      = 10 * time.Second
	DefaultDelay        = 5 * time.Second
)

// ackCommand must succeed over the established session for an attempt to
// count as reachable. A bare handshake is not enough: sshd can accept
// connections before the system is able to execute commands.
const ackCommand = "/bin/true"

// DialFunc attempts one handshake against addr (host:port). It must honor
// ctx cancellation and return nil only if the target executed the
// acknowledgement command.
type DialFunc func(ctx context.Context, addr string) error

// UnreachableError reports probe exhaustion. Attempts equals the
// configured maximum, never less.
type UnreachableError struct {
	Addr     string
	Attempts int
	Last     error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("server %s unreachable after %d attempts: %v", e.Addr, e.Attempts, e.Last)
}

func (e *UnreachableError) Unwrap() error {
	return e.Last
}

// Result describes a successful probe.
type Result struct {
	Attempts int
	Elapsed  time.Duration
}

// Prober is a bounded retry loop around a single Dial function. The zero
// value is not usable; fill in Addr and Dial and either set the timing
// fields or call ApplyDefaults.
type Prober struct {
	Addr         string
	InitialDelay time.Duration
	MaxAttempts  int
	Timeout      time.Duration
	Delay        time.Duration
	Dial         DialFunc
}

// ApplyDefaults fills unset timing fields.
func (p *Prober) ApplyDefaults() {
	if p.InitialDelay < 0 {
		p.InitialDelay = 0
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.Delay <= 0 {
		p.Delay = DefaultDelay
	}
}

// Run blocks until the target acknowledges, the attempt budget is
// exhausted, or ctx is cancelled. On exhaustion the returned error is an
// *UnreachableError wrapping the last attempt's failure.
func (p *Prober) Run(ctx context.Context) (*Result, error) {
	if p.Dial == nil {
		return nil, fmt.Errorf("prober has no dial function")
	}
	if p.Addr == "" {
		return nil, fmt.Errorf("prober has no target address")
	}
	p.ApplyDefaults()

	start := time.Now()

	if p.InitialDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.InitialDelay):
		}
	}

	var last error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		err := p.Dial(attemptCtx, p.Addr)
		cancel()

		if err == nil {
			return &Result{Attempts: attempt, Elapsed: time.Since(start)}, nil
		}
		last = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < p.MaxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.Delay):
			}
		}
	}

	return nil, &UnreachableError{Addr: p.Addr, Attempts: p.MaxAttempts, Last: last}
}

// SSHDial returns a DialFunc performing a real SSH handshake as user and
// running the acknowledgement command. Host key verification is disabled:
// the address is freshly allocated, so there is no prior key to trust.
func SSHDial(user string, signer ssh.Signer) DialFunc {
	return func(ctx context.Context, addr string) error {
		config := &ssh.ClientConfig{
			User:            user,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // fresh address, no prior host key
		}

		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("dial %s: %w", addr, err)
		}

		if deadline, ok := ctx.Deadline(); ok {
			if err := conn.SetDeadline(deadline); err != nil {
				conn.Close()
				return fmt.Errorf("set deadline: %w", err)
			}
		}

		sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
		if err != nil {
			conn.Close()
			return fmt.Errorf("ssh handshake with %s: %w", addr, err)
		}
		client := ssh.NewClient(sshConn, chans, reqs)
		defer client.Close()

		session, err := client.NewSession()
		if err != nil {
			return fmt.Errorf("open session: %w", err)
		}
		defer session.Close()

		if err := session.Run(ackCommand); err != nil {
			return fmt.Errorf("run %s: %w", ackCommand, err)
		}
		return nil
	}
}
