package wizard

import "github.com/onebox-dev/onebox/internal/config"

// defaultUserData makes a fresh server usable by Ansible: the Debian and
// Ubuntu cloud images do not all ship python3.
const defaultUserData = `#cloud-config
package_update: true
packages:
  - python3
`

// BuildConfig creates a Config from the wizard result. publicIP is the
// operator's detected public address, used when SSH access is restricted;
// pass "" when detection failed.
func BuildConfig(result *Result, publicIP string) *config.Config {
	cfg := &config.Config{
		Name:     result.Name,
		Location: result.Location,
		Server: config.ServerConfig{
			Type:     result.ServerType,
			Image:    result.Image,
			User:     "root",
			UserData: defaultUserData,
		},
	}

	if result.RestrictSSH && publicIP != "" {
		cfg.Firewall.SSHSource = []string{publicIP + "/32"}
	}

	if result.UseVolume {
		cfg.Volume = &config.VolumeConfig{
			SizeGB: result.VolumeSizeGB,
			Format: "ext4",
		}
	}

	if result.AppRepo != "" {
		cfg.Deploy.ExtraVars = map[string]string{"app_repo": result.AppRepo}
	}

	cfg.ApplyDefaults()
	return cfg
}
