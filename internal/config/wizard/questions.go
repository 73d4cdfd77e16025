package wizard

import (
	"context"
	"regexp"

	"github.com/charmbracelet/huh"
)

// stackNameRegex validates stack name format: 1-50 lowercase alphanumeric
// with hyphens.
var stackNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,48}[a-z0-9])?$`)

// runIdentityGroup prompts for stack name and location.
func runIdentityGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Stack Name").
				Description("Names the server and its supporting resources").
				Placeholder("mybox").
				Value(&result.Name).
				Validate(validateName),
			huh.NewSelect[string]().
				Title("Location").
				Description("Hetzner Cloud datacenter").
				Options(LocationsToOptions()...).
				Value(&result.Location),
		).Title("Stack Identity"),
	).RunWithContext(ctx)
}

// runServerGroup prompts for server type and image.
func runServerGroup(ctx context.Context, result *Result) error {
	result.ServerType = "cx22"
	result.Image = "debian-12"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Server Type").
				Description("Changing this later replaces the server").
				Options(ServerTypesToOptions()...).
				Value(&result.ServerType),
			huh.NewSelect[string]().
				Title("Image").
				Description("Operating system image").
				Options(ImagesToOptions()...).
				Value(&result.Image),
		).Title("Server"),
	).RunWithContext(ctx)
}

// runAccessGroup prompts for SSH access restriction.
func runAccessGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Restrict SSH to your current IP?").
				Description("The firewall will only accept SSH from your public address; web ports stay open").
				Affirmative("Yes").
				Negative("No, open to the world").
				Value(&result.RestrictSSH),
		).Title("Access"),
	).RunWithContext(ctx)
}

// runVolumeGroup prompts for an optional data volume.
func runVolumeGroup(ctx context.Context, result *Result) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Attach a persistent data volume?").
				Description("Survives server replacement; useful for databases and uploads").
				Value(&result.UseVolume),
		).Title("Data Volume"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}
	if !result.UseVolume {
		return nil
	}

	result.VolumeSizeGB = 25
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Volume Size").
				Options(VolumeSizeOptions...).
				Value(&result.VolumeSizeGB),
		).Title("Data Volume"),
	).RunWithContext(ctx)
}

// runDeployGroup prompts for the optional application repository.
func runDeployGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Application Repository (Optional)").
				Description("Passed to the playbook as app_repo; leave empty to skip").
				Placeholder("https://github.com/you/app.git").
				Value(&result.AppRepo),
		).Title("Deployment"),
	).RunWithContext(ctx)
}

// validateName checks the stack name format.
func validateName(name string) error {
	if name == "" {
		return errNameRequired
	}
	if !stackNameRegex.MatchString(name) {
		return errNameInvalid
	}
	return nil
}
