package provision

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/onebox-dev/onebox/internal/config"
	"github.com/onebox-dev/onebox/internal/util/keygen"
	"github.com/onebox-dev/onebox/internal/util/naming"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Spec is the desired infrastructure for one stack, fully resolved:
// names derived, firewall rules built, digests computed. It is the
// left-hand side of every plan.
type Spec struct {
	Stack    string
	Location string

	SSHKey    SSHKeySpec
	Firewall  FirewallSpec
	Volume    *VolumeSpec
	Server    ServerSpec
	Inventory InventorySpec
}

// SSHKeySpec is the key uploaded for the stack. The MD5 fingerprint is the
// comparison handle: when it differs from the recorded one, the key is
// replaced.
type SSHKeySpec struct {
	Name        string
	PublicKey   string
	Fingerprint string
}

// FirewallSpec carries the built rule set and a stable digest of it.
type FirewallSpec struct {
	Name   string
	Rules  []hcloud.FirewallRule
	Digest string
}

// VolumeSpec is the optional data volume. Hetzner formats a volume only
// at creation, so a format change replaces the volume and loses its data.
type VolumeSpec struct {
	Name   string
	SizeGB int
	Format string
}

// ServerSpec holds the server attributes. Every field here forces a
// replacement when changed; size-style in-place updates do not exist for
// Hetzner servers in this tool.
type ServerSpec struct {
	ServerType     string
	Image          string
	UserData       string
	UserDataDigest string
}

// InventorySpec describes the Ansible inventory artifact.
type InventorySpec struct {
	Path    string
	User    string
	KeyPath string
}

// FromConfig resolves a validated configuration into a Spec. publicKey is
// the content of the configured public key file in authorized_keys format.
func FromConfig(cfg *config.Config, publicKey []byte) (*Spec, error) {
	fp, err := keygen.FingerprintMD5(publicKey)
	if err != nil {
		return nil, fmt.Errorf("cannot fingerprint public key: %w", err)
	}

	rules := buildFirewallRules(cfg.Firewall, cfg.SSH.Port)

	spec := &Spec{
		Stack:    cfg.Name,
		Location: cfg.Location,
		SSHKey: SSHKeySpec{
			Name:        naming.SSHKey(cfg.Name),
			PublicKey:   strings.TrimSpace(string(publicKey)),
			Fingerprint: fp,
		},
		Firewall: FirewallSpec{
			Name:   naming.Firewall(cfg.Name),
			Rules:  rules,
			Digest: RulesDigest(rules),
		},
		Server: ServerSpec{
			ServerType:     cfg.Server.Type,
			Image:          cfg.Server.Image,
			UserData:       cfg.Server.UserData,
			UserDataDigest: userDataDigest(cfg.Server.UserData),
		},
		Inventory: InventorySpec{
			Path:    cfg.Deploy.Inventory,
			User:    cfg.Server.User,
			KeyPath: cfg.SSH.PrivateKey,
		},
	}

	if cfg.Volume != nil {
		spec.Volume = &VolumeSpec{
			Name:   naming.Volume(cfg.Name),
			SizeGB: cfg.Volume.SizeGB,
			Format: cfg.Volume.Format,
		}
	}

	return spec, nil
}

// buildFirewallRules turns the allowed-port list into inbound rules. All
// ports open to the world except the SSH port, which honors the configured
// source CIDRs. ICMP is always allowed so the box stays pingable.
func buildFirewallRules(fw config.FirewallConfig, sshPort int) []hcloud.FirewallRule {
	openToWorld := parseCIDRs([]string{"0.0.0.0/0", "::/0"})
	sshSources := openToWorld
	if len(fw.SSHSource) > 0 {
		sshSources = parseCIDRs(fw.SSHSource)
	}

	ports := append([]int(nil), fw.AllowedTCPPorts...)
	sort.Ints(ports)

	rules := make([]hcloud.FirewallRule, 0, len(ports)+1)
	for _, port := range ports {
		sources := openToWorld
		description := fmt.Sprintf("Allow incoming TCP %d", port)
		if port == sshPort {
			sources = sshSources
			description = "Allow incoming SSH"
		}
		rules = append(rules, hcloud.FirewallRule{
			Description: hcloud.Ptr(description),
			Direction:   hcloud.FirewallRuleDirectionIn,
			Protocol:    hcloud.FirewallRuleProtocolTCP,
			Port:        hcloud.Ptr(strconv.Itoa(port)),
			SourceIPs:   sources,
		})
	}

	rules = append(rules, hcloud.FirewallRule{
		Description: hcloud.Ptr("Allow ICMP"),
		Direction:   hcloud.FirewallRuleDirectionIn,
		Protocol:    hcloud.FirewallRuleProtocolICMP,
		SourceIPs:   openToWorld,
	})

	return rules
}

// parseCIDRs parses CIDR strings into net.IPNet, skipping invalid entries.
// Configuration validation rejects bad CIDRs before they get here.
func parseCIDRs(cidrs []string) []net.IPNet {
	var nets []net.IPNet
	for _, cidr := range cidrs {
		_, n, err := net.ParseCIDR(cidr)
		if err == nil {
			nets = append(nets, *n)
		}
	}
	return nets
}

// RulesDigest returns a stable digest of a firewall rule set. Rules and
// source lists are normalized so logically equal sets digest equally
// regardless of order.
func RulesDigest(rules []hcloud.FirewallRule) string {
	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		port := ""
		if r.Port != nil {
			port = *r.Port
		}
		sources := make([]string, 0, len(r.SourceIPs))
		for i := range r.SourceIPs {
			sources = append(sources, r.SourceIPs[i].String())
		}
		sort.Strings(sources)
		lines = append(lines, fmt.Sprintf("%s %s %s %s", r.Direction, r.Protocol, port, strings.Join(sources, ",")))
	}
	sort.Strings(lines)
	return digest(strings.Join(lines, "\n"))
}

// userDataDigest digests the cloud-init payload. Empty user data digests
// to the empty string so records written without user data stay stable.
func userDataDigest(userData string) string {
	if userData == "" {
		return ""
	}
	return digest(userData)
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
