package snapshot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// Dump renders the snapshot as a canonical, deterministically ordered text
// form: one line per node and channel. Two snapshots of identical network
// state produce byte-identical dumps.
func (s *Snapshot) Dump() string {
	var b strings.Builder
	for _, node := range s.Nodes() {
		fmt.Fprintf(&b, "node %s alias=%q color=%s\n", node.NodeID, node.Alias, node.RGBColor)
	}
	for _, channel := range s.Channels() {
		fmt.Fprintf(&b, "channel %s %s %s sat=%d", channel.SCID, channel.NodeID1, channel.NodeID2, channel.Satoshis)
		for direction, policy := range channel.Policies {
			if policy == nil {
				continue
			}
			fmt.Fprintf(&b, " dir%d=[base=%d ppm=%d cltv=%d disabled=%t]",
				direction, policy.FeeBaseMsat, policy.FeeProportionalMillionths, policy.CLTVExpiryDelta, policy.Disabled)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DiffStats summarizes a snapshot comparison.
type DiffStats struct {
	NodesAdded      int
	NodesRemoved    int
	ChannelsAdded   int
	ChannelsRemoved int
}

// Diff produces a unified diff between the canonical dumps of two snapshots
// together with added/removed counts. Identical snapshots yield an empty
// diff string.
func Diff(before, after *Snapshot, contextLines int) (string, DiffStats, error) {
	if contextLines <= 0 {
		contextLines = 3
	}

	oldDump, newDump := before.Dump(), after.Dump()
	if oldDump == newDump {
		return "", DiffStats{}, nil
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldDump),
		B:        difflib.SplitLines(newDump),
		FromFile: fmt.Sprintf("snapshot@%s", before.At.UTC().Format("2006-01-02T15:04:05Z")),
		ToFile:   fmt.Sprintf("snapshot@%s", after.At.UTC().Format("2006-01-02T15:04:05Z")),
		Context:  contextLines,
	}
	patch, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", DiffStats{}, err
	}

	stats, err := statsFromPatch(patch)
	if err != nil {
		return "", DiffStats{}, err
	}
	return patch, stats, nil
}

// statsFromPatch parses the unified diff back into hunks and counts changed
// node and channel lines.
func statsFromPatch(patch string) (DiffStats, error) {
	fileDiff, err := diff.ParseFileDiff([]byte(patch))
	if err != nil {
		return DiffStats{}, fmt.Errorf("failed to parse snapshot diff: %w", err)
	}

	var stats DiffStats
	for _, hunk := range fileDiff.Hunks {
		for _, line := range bytes.Split(hunk.Body, []byte("\n")) {
			if len(line) < 2 {
				continue
			}
			added := line[0] == '+'
			removed := line[0] == '-'
			if !added && !removed {
				continue
			}
			isNode := bytes.HasPrefix(line[1:], []byte("node "))
			isChannel := bytes.HasPrefix(line[1:], []byte("channel "))
			switch {
			case added && isNode:
				stats.NodesAdded++
			case removed && isNode:
				stats.NodesRemoved++
			case added && isChannel:
				stats.ChannelsAdded++
			case removed && isChannel:
				stats.ChannelsRemoved++
			}
		}
	}
	return stats, nil
}
