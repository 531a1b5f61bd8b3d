// Package sys implements the system-stream collaborator: a small,
// deliberately thin table of byte-oriented streams backed by files or
// in-memory buffers, addressed by a stable StreamID.
//
// Three stream ids are reserved at table construction for the host's
// standard input, output, and error; every other id is handed out by
// an Open* call starting at 3. Lifecycle events (created, closed) are
// broadcast to subscribed Observers, the same pattern the runtime's
// other handle tables use.
package sys
