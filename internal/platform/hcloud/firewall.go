package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// EnsureFirewall ensures a firewall exists with the given rule set and is
// applied to all servers matching applyToLabelSelector. Applying by label
// selector keeps both servers covered while a replacement server coexists
// with the one it replaces.
func (c *RealClient) EnsureFirewall(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToLabelSelector string) (*hcloud.Firewall, error) {
	applyTo := firewallLabelSelectorResource(applyToLabelSelector)

	fw, err := (&EnsureOperation[*hcloud.Firewall, hcloud.FirewallCreateOpts, hcloud.FirewallSetRulesOpts]{
		Name:         name,
		ResourceType: "firewall",
		Get:          c.client.Firewall.Get,
		Create:       c.createFirewall,
		Update:       c.client.Firewall.SetRules,
		CreateOptsMapper: func() hcloud.FirewallCreateOpts {
			opts := hcloud.FirewallCreateOpts{
				Name:   name,
				Rules:  rules,
				Labels: labels,
			}
			if applyTo != nil {
				opts.ApplyTo = []hcloud.FirewallResource{*applyTo}
			}
			return opts
		},
		UpdateOptsMapper: func(_ *hcloud.Firewall) hcloud.FirewallSetRulesOpts {
			return hcloud.FirewallSetRulesOpts{
				Rules: rules,
			}
		},
	}).Execute(ctx, c)
	if err != nil {
		return nil, err
	}

	// An existing firewall may predate the selector or have been detached
	// manually. Re-apply if missing.
	if applyTo != nil && !firewallHasSelector(fw, applyToLabelSelector) {
		actions, _, err := c.client.Firewall.ApplyResources(ctx, fw, []hcloud.FirewallResource{*applyTo})
		if err != nil {
			return nil, fmt.Errorf("failed to apply firewall to label selector: %w", err)
		}
		if err := waitForActions(ctx, c.client, actions...); err != nil {
			return nil, fmt.Errorf("failed to wait for firewall apply: %w", err)
		}
	}

	return fw, nil
}

func (c *RealClient) createFirewall(ctx context.Context, opts hcloud.FirewallCreateOpts) (*CreateResult[*hcloud.Firewall], *hcloud.Response, error) {
	res, resp, err := c.client.Firewall.Create(ctx, opts)
	if err != nil {
		return nil, resp, err
	}
	return &CreateResult[*hcloud.Firewall]{
		Resource: res.Firewall,
		Actions:  res.Actions,
	}, resp, nil
}

// DeleteFirewall deletes the firewall with the given name.
func (c *RealClient) DeleteFirewall(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Firewall]{
		Name:         name,
		ResourceType: "firewall",
		Get:          c.client.Firewall.Get,
		Delete:       c.client.Firewall.Delete,
	}).Execute(ctx, c)
}

// GetFirewall returns the firewall with the given name.
func (c *RealClient) GetFirewall(ctx context.Context, name string) (*hcloud.Firewall, error) {
	fw, _, err := c.client.Firewall.Get(ctx, name)
	return fw, err
}

func firewallLabelSelectorResource(selector string) *hcloud.FirewallResource {
	if selector == "" {
		return nil
	}
	return &hcloud.FirewallResource{
		Type: hcloud.FirewallResourceTypeLabelSelector,
		LabelSelector: &hcloud.FirewallResourceLabelSelector{
			Selector: selector,
		},
	}
}

func firewallHasSelector(fw *hcloud.Firewall, selector string) bool {
	for _, res := range fw.AppliedTo {
		if res.Type == hcloud.FirewallResourceTypeLabelSelector &&
			res.LabelSelector != nil &&
			res.LabelSelector.Selector == selector {
			return true
		}
	}
	return false
}
