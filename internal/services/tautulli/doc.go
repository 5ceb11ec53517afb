// Package tautulli reads current Plex activity from the Tautulli v2 API.
//
// The client calls cmd=get_activity and projects `response.data` into an
// Activity snapshot. Tautulli encodes most numbers as strings (stream_count
// among them) and not every server version agrees, so loosely typed values
// are converted with spf13/cast rather than strict struct decoding.
package tautulli
