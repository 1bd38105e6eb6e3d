// Package repository resolves the GitHub owner, repository and branch a
// document's relative links should point at, preferring explicit values and
// falling back to local git metadata.
package repository
