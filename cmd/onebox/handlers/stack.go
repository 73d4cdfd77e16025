package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/onebox-dev/onebox/internal/config"
	"github.com/onebox-dev/onebox/internal/platform/s3"
	"github.com/onebox-dev/onebox/internal/probe"
	"github.com/onebox-dev/onebox/internal/provision"
	"github.com/onebox-dev/onebox/internal/state"
)

// newStateStore opens the configured state backend. The S3 backend
// scopes the object key by stack name so several stacks can share a
// bucket.
var newStateStore = func(ctx context.Context, cfg *config.Config) (state.Store, error) {
	switch cfg.State.Backend {
	case config.BackendS3:
		client, err := s3.NewClient(cfg.State.S3.Endpoint, cfg.State.S3.Region, cfg.State.S3.Bucket, cfg.State.S3.AccessKey, cfg.State.S3.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("failed to open s3 state backend: %w", err)
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure state bucket %s: %w", cfg.State.S3.Bucket, err)
		}
		return state.NewS3Store(client, cfg.Name+"/state.json"), nil
	default:
		return state.NewFileStore(cfg.State.Path), nil
	}
}

// askApproval reads a yes/no answer from stdin.
var askApproval = func(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// loadConfig loads and validates the stack configuration. If configPath
// is empty, it looks for onebox.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = config.DefaultPath
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no config file at %s\nRun 'onebox init' to create one", configPath)
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadStack loads the configuration together with the recorded state.
func loadStack(ctx context.Context, configPath string) (*config.Config, *state.Record, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := newStateStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	rec, err := state.LoadOrNew(ctx, store)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rec, nil
}

// ensureKeyPair generates SSH key material on first use. Keys managed by
// onebox live in the state directory; user-supplied keys must already
// exist.
func ensureKeyPair(cfg *config.Config) error {
	if _, err := os.Stat(cfg.SSH.PrivateKey); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if !cfg.SSH.UsesGeneratedKeys() {
		return fmt.Errorf("ssh private key %s not found", cfg.SSH.PrivateKey)
	}

	pair, err := generateKeyPair()
	if err != nil {
		return fmt.Errorf("failed to generate ssh key pair: %w", err)
	}

	dir := filepath.Dir(cfg.SSH.PrivateKey)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := writeFile(cfg.SSH.PrivateKey, pair.PrivateKey, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	if err := writeFile(cfg.SSH.PublicKey, pair.PublicKey, 0o644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}

	log.Printf("Generated SSH key pair: %s", cfg.SSH.PrivateKey)
	return nil
}

// buildSpec reads the public key and derives the desired resource set.
func buildSpec(cfg *config.Config) (*provision.Spec, error) {
	publicKey, err := os.ReadFile(cfg.SSH.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key %s: %w", cfg.SSH.PublicKey, err)
	}
	return provision.FromConfig(cfg, publicKey)
}

// saveRecord bumps the serial and persists the record.
func saveRecord(ctx context.Context, store state.Store, rec *state.Record) error {
	rec.Bump()
	if err := store.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// defaultProbeDial parses the configured private key and returns a dial
// performing a full SSH handshake as the configured user.
func defaultProbeDial(cfg *config.Config) (probe.DialFunc, error) {
	keyData, err := os.ReadFile(cfg.SSH.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key %s: %w", cfg.SSH.PrivateKey, err)
	}
	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key %s: %w", cfg.SSH.PrivateKey, err)
	}
	return probe.SSHDial(cfg.Server.User, signer), nil
}
