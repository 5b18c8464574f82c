// Package model contains the in-memory representation of Lightning Network
// gossip: the BOLT #7 message payloads, the Core Lightning gossip_store
// record types and the persisted record form used across the ln-history
// platform.
//
// Messages are typically produced by the parser package from raw wire bytes
// and consumed by the snapshot and ingest services. The root model package
// aggregates the shared scalar types (message types, short channel ids, hex
// encoded byte fields) so they can be referenced with a single import.
package model
