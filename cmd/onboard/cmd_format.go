package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netonboard/pkg/cli"
	"github.com/newtron-network/netonboard/pkg/formatter"
	"github.com/newtron-network/netonboard/pkg/model"
)

var (
	formatFile     string
	formatIdentity bool
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Normalize extracted aggregates into device records",
	Long: `Format reads a JSON object mapping host to extracted aggregate and
normalizes each into a device record. Devices that cannot be normalized are
reported as failed with a reason; they never stop the batch.

With --identity the aggregates are treated as sync_devices output and the
result is the device identity (serial, device type, management interface).

Examples:
  onboard format -f aggregates.json
  onboard format -f aggregates.json --serials serials.json --json
  onboard format -f devices.json --identity`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var aggs map[string]model.Aggregate
		if err := readJSON(formatFile, &aggs); err != nil {
			return err
		}

		ctx := context.Background()
		lookup, closeLookup, err := serialLookup(ctx)
		if err != nil {
			return err
		}
		defer closeLookup()
		f := formatter.New(lookup, nil)

		if formatIdentity {
			out := make(map[string]*model.IdentityRecord, len(aggs))
			for host, agg := range aggs {
				out[host] = f.FormatIdentity(ctx, host, agg)
			}
			if jsonOutput {
				return printJSON(out)
			}
			printIdentities(out)
			return nil
		}

		out := f.Format(ctx, aggs)
		if jsonOutput {
			return printJSON(out)
		}
		printRecords(out)
		return nil
	},
}

func init() {
	formatCmd.Flags().StringVarP(&formatFile, "file", "f", "-", "Aggregates JSON file")
	formatCmd.Flags().BoolVar(&formatIdentity, "identity", false, "Format device identity instead of network data")
}

func sortedHosts[T any](m map[string]T) []string {
	hosts := make([]string, 0, len(m))
	for h := range m {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

func printRecords(records map[string]*model.DeviceRecord) {
	t := cli.NewTable("HOST", "PLATFORM", "STATUS", "SERIAL", "INTERFACES", "REASON")
	failed := 0
	for _, host := range sortedHosts(records) {
		r := records[host]
		if r.Failed {
			failed++
		}
		t.Row(host, r.Platform, cli.Status(r.Failed), r.Serial,
			strconv.Itoa(len(r.Interfaces)), cli.Truncate(r.FailedReason, 60))
	}
	t.Flush()
	summary := fmt.Sprintf("%d device(s), %d failed", len(records), failed)
	if failed > 0 {
		summary = cli.Yellow(summary)
	}
	fmt.Printf("\n%s\n", summary)
}

func printIdentities(records map[string]*model.IdentityRecord) {
	t := cli.NewTable("HOST", "HOSTNAME", "STATUS", "SERIAL", "DEVICE TYPE", "MGMT", "REASON")
	for _, host := range sortedHosts(records) {
		r := records[host]
		mgmt := r.MgmtInterface
		if r.MaskLength > 0 {
			mgmt = fmt.Sprintf("%s /%d", mgmt, r.MaskLength)
		}
		t.Row(host, r.Hostname, cli.Status(r.Failed), r.Serial, r.DeviceType, mgmt,
			cli.Truncate(r.FailedReason, 50))
	}
	t.Flush()
}
