package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netonboard/pkg/cli"
	"github.com/newtron-network/netonboard/pkg/extract"
	"github.com/newtron-network/netonboard/pkg/fieldmap"
)

var (
	extractPlatform string
	extractDomain   string
	extractHost     string
	extractFile     string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract field-map fields from one host's command outputs",
	Long: `Extract runs a field-map domain against one host's parsed command
outputs (a JSON object keyed by command) and prints the aggregate.

Examples:
  onboard extract --platform cisco_ios --host 192.0.2.10 -f outputs.json
  onboard extract --platform cisco_nxos --domain sync_devices --host 192.0.2.20 -f - --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkExtractHost(extractDomain, extractHost); err != nil {
			return err
		}
		set, err := loadFieldMaps()
		if err != nil {
			return err
		}
		var outputs map[string]any
		if err := readJSON(extractFile, &outputs); err != nil {
			return err
		}

		agg, err := extract.NewDriver(nil).ExtractHost(extractHost, extractPlatform, extractDomain, set, outputs, baseScope())
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(agg)
		}
		keys := make([]string, 0, len(agg))
		for k := range agg {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s %s\n", cli.DotPad(k, 30), cli.Truncate(fmt.Sprint(agg[k]), 80))
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractPlatform, "platform", "", "Device platform (e.g. cisco_ios)")
	extractCmd.Flags().StringVar(&extractDomain, "domain", fieldmap.DomainSyncNetworkData, "Sync domain")
	extractCmd.Flags().StringVar(&extractHost, "host", "", "Host address, bound as original_host in field-map templates (required for sync_devices)")
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "-", "Command outputs JSON file")
	extractCmd.MarkFlagRequired("platform")
}

// checkExtractHost rejects a sync_devices extraction without a host: its
// management-interface queries select rows by original_host and would
// silently match nothing.
func checkExtractHost(domain, host string) error {
	if domain == fieldmap.DomainSyncDevices && strings.TrimSpace(host) == "" {
		return fmt.Errorf("--host is required for --domain %s", fieldmap.DomainSyncDevices)
	}
	return nil
}
