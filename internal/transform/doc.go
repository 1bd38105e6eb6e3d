// Package transform implements the README transformation command: it reads a
// document, resolves the target repository reference, rewrites relative image
// links and writes the result.
package transform
