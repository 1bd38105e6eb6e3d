// Package cli constructs the transform-readme command-line interface, wiring
// the Cobra root command, the layered configuration loader and structured
// logging around the transform command.
package cli
