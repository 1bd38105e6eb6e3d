// Package flags renders and validates enumerated command-line and
// configuration choices.
package flags
