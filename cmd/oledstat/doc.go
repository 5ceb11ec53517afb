// Command oledstat drives a 128x32 OLED with SABnzbd and Tautulli status.
//
// `oledstat run` starts the polling loop in the foreground, `oledstat print`
// writes up to four lines once, and the remaining subcommands query the
// services or the local setup without touching the display.
package main
