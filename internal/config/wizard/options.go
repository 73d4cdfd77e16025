package wizard

import "github.com/charmbracelet/huh"

// LocationOption represents a Hetzner Cloud datacenter location.
type LocationOption struct {
	Value       string
	Label       string
	Description string
}

// ServerTypeOption represents a Hetzner Cloud server type.
type ServerTypeOption struct {
	Value       string
	Label       string
	Description string
}

// ImageOption represents an operating system image.
type ImageOption struct {
	Value       string
	Label       string
	Description string
}

// Locations contains all valid Hetzner Cloud datacenter locations.
var Locations = []LocationOption{
	{Value: "nbg1", Label: "nbg1", Description: "Nuremberg, Germany"},
	{Value: "fsn1", Label: "fsn1", Description: "Falkenstein, Germany"},
	{Value: "hel1", Label: "hel1", Description: "Helsinki, Finland"},
	{Value: "ash", Label: "ash", Description: "Ashburn, USA"},
	{Value: "hil", Label: "hil", Description: "Hillsboro, USA"},
	{Value: "sin", Label: "sin", Description: "Singapore"},
}

// ServerTypes contains recommended server types for a single-server stack.
var ServerTypes = []ServerTypeOption{
	{Value: "cx22", Label: "cx22", Description: "2 vCPU, 4GB RAM (Intel/AMD)"},
	{Value: "cx32", Label: "cx32", Description: "4 vCPU, 8GB RAM (Intel/AMD)"},
	{Value: "cx42", Label: "cx42", Description: "8 vCPU, 16GB RAM (Intel/AMD)"},
	{Value: "cpx11", Label: "cpx11", Description: "2 vCPU, 2GB RAM (AMD)"},
	{Value: "cpx21", Label: "cpx21", Description: "3 vCPU, 4GB RAM (AMD)"},
	{Value: "cpx31", Label: "cpx31", Description: "4 vCPU, 8GB RAM (AMD)"},
	{Value: "cax11", Label: "cax11", Description: "2 vCPU, 4GB RAM (ARM)"},
	{Value: "cax21", Label: "cax21", Description: "4 vCPU, 8GB RAM (ARM)"},
	{Value: "cax31", Label: "cax31", Description: "8 vCPU, 16GB RAM (ARM)"},
	{Value: "ccx13", Label: "ccx13", Description: "2 vCPU, 8GB RAM (Dedicated)"},
}

// Images contains common operating system images.
var Images = []ImageOption{
	{Value: "debian-12", Label: "debian-12", Description: "Debian 12 (Bookworm)"},
	{Value: "debian-11", Label: "debian-11", Description: "Debian 11 (Bullseye)"},
	{Value: "ubuntu-24.04", Label: "ubuntu-24.04", Description: "Ubuntu 24.04 LTS"},
	{Value: "ubuntu-22.04", Label: "ubuntu-22.04", Description: "Ubuntu 22.04 LTS"},
	{Value: "rocky-9", Label: "rocky-9", Description: "Rocky Linux 9"},
}

// VolumeSizeOptions contains common data volume sizes.
var VolumeSizeOptions = []huh.Option[int]{
	huh.NewOption("10 GB", 10),
	huh.NewOption("25 GB", 25),
	huh.NewOption("50 GB", 50),
	huh.NewOption("100 GB", 100),
	huh.NewOption("250 GB", 250),
}

// LocationsToOptions converts LocationOption slice to huh.Option slice.
func LocationsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Locations))
	for i, loc := range Locations {
		opts[i] = huh.NewOption(loc.Label+" - "+loc.Description, loc.Value)
	}
	return opts
}

// ServerTypesToOptions converts ServerTypeOption slice to huh.Option slice.
func ServerTypesToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(ServerTypes))
	for i, st := range ServerTypes {
		opts[i] = huh.NewOption(st.Label+" - "+st.Description, st.Value)
	}
	return opts
}

// ImagesToOptions converts ImageOption slice to huh.Option slice.
func ImagesToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Images))
	for i, img := range Images {
		opts[i] = huh.NewOption(img.Label+" - "+img.Description, img.Value)
	}
	return opts
}
