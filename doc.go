// Package lnhistory is a client library for the ln-history platform: it
// parses raw Lightning Network gossip (BOLT #7 and the Core Lightning
// gossip_store extensions), ingests and deduplicates plugin event streams,
// requests historical network snapshots and reconstructs the channel graph
// at a point in time.
package lnhistory
