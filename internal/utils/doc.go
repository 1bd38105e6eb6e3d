// Package utils exposes the logging and configuration plumbing shared by the
// transform-readme command.
//
// ConfigurationLoader layers embedded defaults, an optional YAML file, and
// TRANSFORMREADME_* environment variables through Viper. LoggerFactory builds
// zap loggers that always write to standard error so diagnostics never mix
// with a document streamed to standard output.
package utils
