// Command gwcond runs segment algebra and spectral conditioning over
// detector data held in YAML documents.
//
// Usage:
//
//	gwcond <command> [flags] [args]
//
// Examples:
//
//	gwcond windows hann kaiser
//	gwcond state guardian.yaml --define 'H1:LOCKED=== 500'
//	gwcond segments flags.yaml H1:LOCKED H1:OBSERVE --op and
//	gwcond asd strain.yaml --analysis analysis.yaml --fmin 10
//	gwcond spectrogram strain.yaml --flags flags.yaml --flag H1:LOCKED
//	gwcond gate triggers.yaml --flags flags.yaml --flag H1:LOCKED --min-snr 8
//	gwcond blrms ground.yaml --band 1,3 --band 3,10
//	gwcond stats strain.yaml --flags flags.yaml --flag H1:LOCKED --spectral
//
// Flags can also come from a config file (--config) or from GWCOND_*
// environment variables, e.g. GWCOND_LOG_LEVEL=debug.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
