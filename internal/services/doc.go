// Package services defines shared utilities consumed by the SABnzbd and
// Tautulli clients and the polling loop.
//
// Key responsibilities:
//   - Context helpers that stamp tick numbers and correlation identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper so fetch failures can be
//     classified (timeout, transient, validation) without string matching.
//
// Use these helpers when wiring new service clients so error handling and
// observability stay uniform across the process.
package services
