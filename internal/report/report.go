package report

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/driftwood-io/driftwood/internal/model"
	driftwooderrors "github.com/driftwood-io/driftwood/pkg/errors"
)

// WriteOutcome emits the success payload: the changed flag merged with the
// variant-specific attributes at the top level.
func WriteOutcome(w io.Writer, out *model.Outcome) error {
	payload := make(map[string]any, len(out.Attributes)+1)
	for k, v := range out.Attributes {
		payload[k] = v
	}
	payload["changed"] = out.Changed

	return json.NewEncoder(w).Encode(payload)
}

// WriteFailure emits the failure payload: a msg field, plus rc and cmd when
// the failure came from an executed command.
func WriteFailure(w io.Writer, err error) error {
	payload := map[string]any{"msg": err.Error()}

	var execErr *driftwooderrors.ExecutionError
	if errors.As(err, &execErr) {
		if execErr.Output != "" {
			payload["msg"] = execErr.Output
		}
		payload["rc"] = execErr.RC
		if execErr.Cmd != "" {
			payload["cmd"] = execErr.Cmd
		}
	}

	return json.NewEncoder(w).Encode(payload)
}

// ExitCode maps a reconciliation result onto the process exit contract.
func ExitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
