package main

import (
	"os"

	"github.com/driftwood-io/driftwood/internal/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_ = report.WriteFailure(os.Stdout, err)
		os.Exit(1)
	}
}
