package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ln-history/lnhistory/gossipstore"
	"github.com/ln-history/lnhistory/parser"
	"github.com/ln-history/lnhistory/snapshot"
	"github.com/spf13/cobra"
)

var diffContext int

var diffCmd = &cobra.Command{
	Use:   "diff <gossip_store_before> <gossip_store_after>",
	Short: "Diff the network state of two gossip_store files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, err := snapshotFromStore(args[0])
		if err != nil {
			return err
		}
		after, err := snapshotFromStore(args[1])
		if err != nil {
			return err
		}

		patch, stats, err := snapshot.Diff(before, after, diffContext)
		if err != nil {
			return err
		}
		if patch == "" {
			fmt.Println("no changes")
			return nil
		}
		fmt.Print(patch)
		fmt.Printf("nodes: +%d -%d, channels: +%d -%d\n",
			stats.NodesAdded, stats.NodesRemoved, stats.ChannelsAdded, stats.ChannelsRemoved)
		return nil
	},
}

func snapshotFromStore(path string) (*snapshot.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	reader, err := gossipstore.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	snap := snapshot.New(time.Now())
	for {
		record, err := reader.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		msg, err := parser.ParseMessage(record.Raw)
		if err != nil {
			continue
		}
		snap.Apply(msg)
	}
	return snap, nil
}

func init() {
	diffCmd.Flags().IntVar(&diffContext, "context", 3, "unified diff context lines")
	rootCmd.AddCommand(diffCmd)
}
