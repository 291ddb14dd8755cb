package reconcile

import (
	"context"

	"github.com/driftwood-io/driftwood/internal/config"
	"github.com/driftwood-io/driftwood/internal/model"
)

// Metadata describes a reconciler for registry listing.
type Metadata struct {
	Name        string
	Version     string
	Description string
}

// Reconciler brings one remote resource into its declared desired state.
//
// Reconcile probes the current state, computes the ordered action plan, and
// executes it through the reconciler's collaborators. It returns an Outcome
// on success and a typed error from pkg/errors on the first failing step;
// mutations issued before the failure are not rolled back.
type Reconciler interface {
	// Metadata returns the reconciler's identity.
	Metadata() Metadata

	// Schema returns the struct defining this reconciler's spec fields.
	Schema() any

	// Reconcile runs the full probe, plan, execute sequence for one spec.
	Reconcile(ctx context.Context, spec *config.Spec) (*model.Outcome, error)
}
