package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ln-history/lnhistory/parser"
	"github.com/spf13/cobra"
)

var parseFile string

var parseCmd = &cobra.Command{
	Use:   "parse [hex]",
	Short: "Parse a raw gossip message into JSON",
	Long: "Parse decodes a single raw gossip message, supplied as a hex argument or\n" +
		"read from a binary file, and prints the typed payload as JSON.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		switch {
		case parseFile != "":
			data, err := os.ReadFile(parseFile)
			if err != nil {
				return err
			}
			raw = data
		case len(args) == 1:
			data, err := hex.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid hex input: %w", err)
			}
			raw = data
		default:
			return fmt.Errorf("supply a hex argument or --file")
		}

		msg, err := parser.ParseMessage(raw)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(map[string]interface{}{
			"type":   msg.Type().String(),
			"parsed": msg,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "read the raw message from a binary file")
	rootCmd.AddCommand(parseCmd)
}
