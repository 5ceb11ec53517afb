// Package status runs the polling loop that turns SABnzbd and Tautulli
// snapshots into the lines shown on the OLED.
//
// Each tick blanks the frame, picks a jittered origin, fetches the queue and
// then the activity, draws either the composed lines or "Error", flushes, and
// sleeps. Fetch failures never stop the loop; only context cancellation does,
// and the display is cleared on the way out whatever state the loop was in.
package status
