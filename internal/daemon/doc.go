// Package daemon owns the long-running oledstat process.
//
// It ties the configuration, the status renderer and the display into a
// single lifecycle guarded by a flock on <state_dir>/oledstat.lock, so two
// loops can never drive the same panel. Start acquires the lock and launches
// the renderer; Stop cancels it, waits for the final clear, powers the panel
// down and releases the bus and the lock.
//
// Keep orchestration here: fetching and drawing belong to the status and
// display packages.
package daemon
