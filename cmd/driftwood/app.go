package main

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/driftwood-io/driftwood/internal/config"
	"github.com/driftwood-io/driftwood/internal/execrun"
	"github.com/driftwood-io/driftwood/internal/ilo"
	"github.com/driftwood-io/driftwood/internal/logger"
	"github.com/driftwood-io/driftwood/internal/reconcile"
	"github.com/driftwood-io/driftwood/internal/reconcilers/bootmedia"
	"github.com/driftwood-io/driftwood/internal/reconcilers/pippkg"
	"github.com/driftwood-io/driftwood/internal/report"
)

// app wires the logger, the reconciler registry, and the invocation identity
// together for one run.
type app struct {
	log      *logger.Logger
	registry *reconcile.Registry
	runID    string
	stdout   io.Writer
}

func newApp(root *rootFlags) (*app, error) {
	level := "info"
	if root.verbose {
		level = "debug"
	}

	log, err := logger.New(logger.Options{
		Level:  level,
		Pretty: term.IsTerminal(int(os.Stderr.Fd())),
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		log:      log,
		registry: reconcile.NewRegistry(),
		runID:    uuid.NewString(),
		stdout:   os.Stdout,
	}

	dial := func(host, login, password string) ilo.Client {
		return ilo.NewRIBCL(host, login, password)
	}

	if err := a.registry.Register(config.TypeBootMedia, bootmedia.New(dial, log)); err != nil {
		return nil, err
	}
	if err := a.registry.Register(config.TypePip, pippkg.New(execrun.Local{}, log)); err != nil {
		return nil, err
	}

	return a, nil
}

// runSpec validates the spec, dispatches it to its reconciler, and emits the
// outcome. Any returned error becomes the failure payload and exit code 1.
func (a *app) runSpec(ctx context.Context, spec *config.Spec) error {
	if err := config.ValidateSpec(spec); err != nil {
		return err
	}

	rec, err := a.registry.Get(spec.Type)
	if err != nil {
		return err
	}

	log := a.log.With("run_id", a.runID).With("target", spec.Type)
	log.Info("reconciling")

	out, err := rec.Reconcile(ctx, spec)
	if err != nil {
		log.Error(err, "reconciliation failed")
		return err
	}

	out.Set("run_id", a.runID)
	log.With("changed", out.Changed).Info("reconciliation finished")

	return report.WriteOutcome(a.stdout, out)
}

// loadDefaults resolves the defaults file. An explicit path must exist; the
// implicit per-user path is optional.
func loadDefaults(explicitPath string) (*config.Defaults, error) {
	if explicitPath != "" {
		return config.LoadDefaults(explicitPath)
	}

	path, err := config.DefaultsPath()
	if err != nil {
		return &config.Defaults{}, nil
	}

	d, err := config.LoadDefaults(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &config.Defaults{}, nil
		}
		return nil, err
	}
	return d, nil
}
