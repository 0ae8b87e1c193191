package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/newtron-network/netonboard/pkg/extract"
	"github.com/newtron-network/netonboard/pkg/fieldmap"
	"github.com/newtron-network/netonboard/pkg/formatter"
	"github.com/newtron-network/netonboard/pkg/metrics"
	"github.com/newtron-network/netonboard/pkg/model"
	"github.com/newtron-network/netonboard/pkg/util"
)

var (
	runFile       string
	runDomain     string
	runMetricsOut string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract and format many hosts in one pass",
	Long: `Run reads a JSON object mapping host to {platform, defaults, outputs},
extracts every host concurrently and formats the result.

A host's defaults may set sync_vlans or sync_vrfs to widen the scope for
that host only.

Examples:
  onboard run -f hosts.json
  onboard run -f hosts.json --sync-vlans --sync-vrfs --json
  onboard run -f hosts.json --domain sync_devices
  onboard run -f hosts.json --metrics-out metrics.prom`,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadFieldMaps()
		if err != nil {
			return err
		}
		var hosts map[string]hostInput
		if err := readJSON(runFile, &hosts); err != nil {
			return err
		}
		util.Infof("run: %d host(s), domain %s, scope %+v", len(hosts), runDomain, baseScope())

		reg := prometheus.NewRegistry()
		rec, err := metrics.NewRecorder(reg)
		if err != nil {
			return err
		}

		aggs := extractHosts(set, hosts, rec)

		ctx := context.Background()
		lookup, closeLookup, err := serialLookup(ctx)
		if err != nil {
			return err
		}
		defer closeLookup()
		f := formatter.New(lookup, rec)

		if runDomain == fieldmap.DomainSyncDevices {
			out := make(map[string]*model.IdentityRecord, len(aggs))
			for host, agg := range aggs {
				out[host] = f.FormatIdentity(ctx, host, agg)
			}
			if err := writeMetrics(reg); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}
			printIdentities(out)
			return nil
		}

		out := f.Format(ctx, aggs)
		if err := writeMetrics(reg); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out)
		}
		printRecords(out)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "-", "Hosts JSON file")
	runCmd.Flags().StringVar(&runDomain, "domain", fieldmap.DomainSyncNetworkData, "Sync domain")
	runCmd.Flags().StringVar(&runMetricsOut, "metrics-out", "", "Write Prometheus text metrics to this file")
}

// extractHosts runs the driver for every host in parallel. A host whose
// platform has no field map gets an aggregate carrying only the platform so
// the formatter reports it as unsupported.
func extractHosts(set *fieldmap.Set, hosts map[string]hostInput, rec *metrics.Recorder) map[string]model.Aggregate {
	driver := extract.NewDriver(rec)
	base := baseScope()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		aggs = make(map[string]model.Aggregate, len(hosts))
	)
	for host, in := range hosts {
		wg.Add(1)
		go func(host string, in hostInput) {
			defer wg.Done()
			agg, err := driver.ExtractHost(host, in.Platform, runDomain, set, in.Outputs, hostScope(base, in.Defaults))
			if err != nil {
				util.WithDevice(host).Debugf("extract: %v", err)
				agg = model.Aggregate{}
				if in.Platform != "" {
					agg[model.KeyPlatform] = in.Platform
				}
			}
			mu.Lock()
			aggs[host] = agg
			mu.Unlock()
		}(host, in)
	}
	wg.Wait()
	return aggs
}

func writeMetrics(reg *prometheus.Registry) error {
	if runMetricsOut == "" {
		return nil
	}
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	f, err := os.Create(runMetricsOut)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	util.Debugf("metrics: wrote %d families to %s", len(families), runMetricsOut)
	return nil
}
