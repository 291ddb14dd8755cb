package model

// Outcome is the single structured result of one reconciliation run. It is
// created fresh per invocation, returned once, and never persisted.
type Outcome struct {
	// Changed reports whether any mutating action was actually performed.
	Changed bool

	// Attributes holds variant-specific fields echoed back to the caller,
	// such as probed virtual-media status or the composed pip command.
	Attributes map[string]any
}

// NewOutcome returns an empty Outcome ready to collect attributes.
func NewOutcome() *Outcome {
	return &Outcome{Attributes: make(map[string]any)}
}

// Set records an attribute on the outcome.
func (o *Outcome) Set(key string, value any) {
	if o.Attributes == nil {
		o.Attributes = make(map[string]any)
	}
	o.Attributes[key] = value
}

// Result captures the raw outcome of one imperative step.
type Result struct {
	RC     int
	Stdout string
	Stderr string
}

// Aggregate folds a sequence of step results into one combined outcome.
//
// Return codes are summed and output is concatenated across steps. A step
// that succeeds after an earlier failure can therefore mix its text into the
// failure message, and two failures can in theory cancel out to rc 0. That
// matches the behaviour of the module this reconciler replaces; callers that
// need per-step outcomes must inspect each Result before adding it.
type Aggregate struct {
	RC     int
	Stdout string
	Stderr string
}

// Add folds one step result into the aggregate.
func (a *Aggregate) Add(res Result) {
	a.RC += res.RC
	a.Stdout += res.Stdout
	a.Stderr += res.Stderr
}

// Failed reports whether the aggregated return code is nonzero.
func (a *Aggregate) Failed() bool {
	return a.RC != 0
}

// Message returns the combined captured text, stdout first.
func (a *Aggregate) Message() string {
	return a.Stdout + a.Stderr
}
