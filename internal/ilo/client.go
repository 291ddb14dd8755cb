package ilo

import (
	"context"
)

// Power status values reported by the controller.
const (
	PowerOn  = "ON"
	PowerOff = "OFF"
)

// MediaStatus is the probed state of a virtual-media device.
type MediaStatus struct {
	BootOption    string
	WriteProtect  bool
	ImageInserted bool
	ImageURL      string
}

// Client is the management-controller surface the boot-media reconciler
// depends on. It covers identity and power probes plus the imperative
// boot-device, virtual-media, and power-transition calls.
//
// Virtual CD-ROM state travels through the VM status pair; virtual floppy and
// USB key share the VF status pair.
type Client interface {
	GetServerName(ctx context.Context) (string, error)
	GetHostPowerStatus(ctx context.Context) (string, error)

	SetOneTimeBoot(ctx context.Context, device string) error
	InsertVirtualMedia(ctx context.Context, device, imageURL string) error

	SetVMStatus(ctx context.Context, device, bootOption string, writeProtect bool) error
	GetVMStatus(ctx context.Context, device string) (MediaStatus, error)
	SetVFStatus(ctx context.Context, bootOption string, writeProtect bool) error
	GetVFStatus(ctx context.Context) (MediaStatus, error)

	// WarmBootServer asks the host OS to reboot gracefully.
	WarmBootServer(ctx context.Context) error
	// ColdBootServer forces power on from the OFF state.
	ColdBootServer(ctx context.Context) error
}
