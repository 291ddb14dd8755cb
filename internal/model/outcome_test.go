package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutcomeSetInitialisesAttributes(t *testing.T) {
	t.Parallel()

	var out Outcome
	out.Set("state", "present")

	require.Equal(t, "present", out.Attributes["state"])
	require.False(t, out.Changed)
}

func TestAggregateSumsReturnCodes(t *testing.T) {
	t.Parallel()

	var agg Aggregate
	agg.Add(Result{RC: 0, Stdout: "created venv\n"})
	agg.Add(Result{RC: 2, Stderr: "no such package\n"})

	require.True(t, agg.Failed())
	require.Equal(t, 2, agg.RC)
	require.Equal(t, "created venv\nno such package\n", agg.Message())
}

func TestAggregateMixesSuccessAndFailureText(t *testing.T) {
	t.Parallel()

	// Output from a successful step stays in the message even when a later
	// step fails. This mirrors the aggregation rule of the original module.
	var agg Aggregate
	agg.Add(Result{RC: 0, Stdout: "Successfully installed virtualenv"})
	agg.Add(Result{RC: 1, Stderr: "install failed"})

	require.True(t, agg.Failed())
	require.Contains(t, agg.Message(), "Successfully installed virtualenv")
	require.Contains(t, agg.Message(), "install failed")
}

func TestAggregateEmptyIsSuccess(t *testing.T) {
	t.Parallel()

	var agg Aggregate
	require.False(t, agg.Failed())
	require.Empty(t, agg.Message())
}
