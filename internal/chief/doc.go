// Package chief defines the boundary between the CLI and the irgsh chief
// service.
//
// The Client interface is what commands program against. Placeholder performs
// no network I/O and is the default transport; HTTPClient speaks the chief's
// JSON API (submit, status polling, log retrieval). New selects one based on
// the configured transport so the dispatcher never depends on a concrete
// protocol.
package chief
