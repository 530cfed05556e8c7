// Package buildlog provides the structured-enough logging and terminal
// status reporting used across brix: a prefixed *log.Logger per component,
// plus a terminal-aware progress reporter for the executor's worker pool.
package buildlog
