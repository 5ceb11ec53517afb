// Package preflight provides readiness checks for the services, device node
// and files oledstat depends on.
//
// The CLI "oledstat check" command runs RunAll and prints the results; the
// individual checks are exported so the status command can reuse the service
// checks. Checks never return errors: every failure is folded into a Result
// with a human-readable detail.
package preflight
