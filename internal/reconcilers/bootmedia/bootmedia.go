package bootmedia

import (
	"context"
	"strings"

	"github.com/driftwood-io/driftwood/internal/config"
	"github.com/driftwood-io/driftwood/internal/ilo"
	"github.com/driftwood-io/driftwood/internal/logger"
	"github.com/driftwood-io/driftwood/internal/model"
	"github.com/driftwood-io/driftwood/internal/reconcile"
	driftwooderrors "github.com/driftwood-io/driftwood/pkg/errors"
)

// Dialer opens a management-controller client for the given host and
// credentials. Injected so tests can substitute a fake controller.
type Dialer func(host, login, password string) ilo.Client

type bootMediaReconciler struct {
	dial Dialer
	log  *logger.Logger
}

// New creates the boot-media reconciler.
func New(dial Dialer, log *logger.Logger) reconcile.Reconciler {
	return &bootMediaReconciler{dial: dial, log: log}
}

var _ reconcile.Reconciler = (*bootMediaReconciler)(nil)

func (r *bootMediaReconciler) Metadata() reconcile.Metadata {
	return reconcile.Metadata{
		Name:        "boot_media",
		Version:     "1.0.0",
		Description: "Sets boot media, virtual media, and power state through an iLO-style controller.",
	}
}

func (r *bootMediaReconciler) Schema() any {
	return config.BootMediaSpec{}
}

// Reconcile drives the controller through the ordered plan: identity gate,
// one-time boot selector, virtual-media insert, media status, power
// transition. Boot-media state is not diffable before acting, so a completed
// run always reports changed=true.
func (r *bootMediaReconciler) Reconcile(ctx context.Context, spec *config.Spec) (*model.Outcome, error) {
	cfg := spec.BootMedia
	if cfg == nil {
		return nil, driftwooderrors.NewValidationError("boot_media", "boot_media configuration missing", nil)
	}

	client := r.dial(cfg.Host, cfg.Login, cfg.Password)
	log := r.log.WithFields(map[string]any{"host": cfg.Host, "state": cfg.State})

	if cfg.Match != "" {
		identity, err := client.GetServerName(ctx)
		if err != nil {
			return nil, driftwooderrors.NewConnectionError(cfg.Host, err)
		}
		if !strings.HasPrefix(strings.ToLower(identity), strings.ToLower(cfg.Match)) {
			return nil, driftwooderrors.NewSafetyError(cfg.Match, identity)
		}
		log.Debug("server identity matched")
	}

	out := model.NewOutcome()

	if cfg.Media != "" {
		// The one-time boot selector is always set; the controller offers no
		// cheap way to diff it beforehand.
		if err := client.SetOneTimeBoot(ctx, cfg.Media); err != nil {
			return nil, driftwooderrors.NewConnectionError(cfg.Host, err)
		}
		log.With("media", cfg.Media).Debug("one-time boot device set")

		if cfg.Image != "" {
			if err := client.InsertVirtualMedia(ctx, cfg.Media, cfg.Image); err != nil {
				return nil, driftwooderrors.NewConnectionError(cfg.Host, err)
			}
			log.With("image", cfg.Image).Debug("virtual media mounted")
		}

		if err := r.applyMediaState(ctx, client, cfg, out); err != nil {
			return nil, err
		}
	}

	if err := r.transitionPower(ctx, client, cfg, log); err != nil {
		return nil, err
	}

	out.Changed = true
	return out, nil
}

// applyMediaState pushes the desired boot state to the media status endpoint
// and re-probes it into the outcome attributes. CD-ROM uses the VM status
// pair; floppy and USB share the VF pair. Plain disk and network selectors
// have no status endpoint and are skipped.
func (r *bootMediaReconciler) applyMediaState(ctx context.Context, client ilo.Client, cfg *config.BootMediaSpec, out *model.Outcome) error {
	var status ilo.MediaStatus

	switch cfg.Media {
	case "cdrom":
		if err := client.SetVMStatus(ctx, cfg.Media, cfg.State, true); err != nil {
			return driftwooderrors.NewConnectionError(cfg.Host, err)
		}
		probed, err := client.GetVMStatus(ctx, cfg.Media)
		if err != nil {
			return driftwooderrors.NewConnectionError(cfg.Host, err)
		}
		status = probed
	case "floppy", "usb":
		if err := client.SetVFStatus(ctx, cfg.State, true); err != nil {
			return driftwooderrors.NewConnectionError(cfg.Host, err)
		}
		probed, err := client.GetVFStatus(ctx)
		if err != nil {
			return driftwooderrors.NewConnectionError(cfg.Host, err)
		}
		status = probed
	default:
		return nil
	}

	out.Set("boot_option", status.BootOption)
	out.Set("write_protect", status.WriteProtect)
	out.Set("image_inserted", status.ImageInserted)
	if status.ImageURL != "" {
		out.Set("image_url", status.ImageURL)
	}
	return nil
}

// transitionPower applies the power table: a server that is already on is
// only touched when force is set (warm reboot); an off server gets a cold
// boot. Only boot_once and boot_always request a transition, unless force
// demands one regardless of state.
func (r *bootMediaReconciler) transitionPower(ctx context.Context, client ilo.Client, cfg *config.BootMediaSpec, log *logger.Logger) error {
	wantsBoot := cfg.State == config.StateBootOnce || cfg.State == config.StateBootAlways
	if !wantsBoot && !cfg.Force {
		return nil
	}

	power, err := client.GetHostPowerStatus(ctx)
	if err != nil {
		return driftwooderrors.NewConnectionError(cfg.Host, err)
	}

	if power == ilo.PowerOn {
		if !cfg.Force {
			return driftwooderrors.NewAlreadyPoweredOnError(cfg.Host)
		}
		if err := client.WarmBootServer(ctx); err != nil {
			return driftwooderrors.NewConnectionError(cfg.Host, err)
		}
		log.Info("warm reboot issued")
		return nil
	}

	if err := client.ColdBootServer(ctx); err != nil {
		return driftwooderrors.NewConnectionError(cfg.Host, err)
	}
	log.Info("cold boot issued")
	return nil
}
