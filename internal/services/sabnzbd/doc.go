// Package sabnzbd is a minimal client for the SABnzbd JSON API.
//
// Only the three calls the status display needs are implemented: pause and
// resume the download queue, and fetch the queue summary. Every request uses
// the API's query-string authentication with the parameter order
// `output=json&apikey=<key>&<action>`, which the server accepts verbatim.
package sabnzbd
