// Onboard - network device onboarding data extractor
//
// Turns parsed "show" command output into canonical device records ready
// for a source-of-truth inventory. Field maps describe, per platform and
// sync domain, which command and query produce each field; platform
// normalizers assemble the extracted fields into one record per device.
//
// Examples:
//
//	onboard extract --platform cisco_ios --host 192.0.2.10 -f outputs.json
//	onboard format -f aggregates.json --serials serials.json
//	onboard run -f hosts.json --sync-vlans --sync-vrfs --json
//	onboard fieldmap validate ./fieldmaps
//	onboard fieldmap show --platform cisco_nxos
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netonboard/pkg/settings"
	"github.com/newtron-network/netonboard/pkg/util"
	"github.com/newtron-network/netonboard/pkg/version"
)

var (
	// Global option flags
	fieldMapDir string
	syncVLANs   bool
	syncVRFs    bool
	serialsFile string
	redisAddr   string
	redisDB     int
	verbose     bool
	jsonOutput  bool
	logJSON     bool

	// Global state
	userSettings *settings.Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "onboard",
	Short:             "Network device onboarding data extractor",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Onboard extracts fields from parsed show-command output using per-platform
field maps and normalizes them into canonical device records.

  onboard run -f hosts.json [--sync-vlans] [--sync-vrfs] [--json]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set log level: quiet by default, verbose on -v
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}
		if logJSON {
			util.SetJSONFormat()
		}

		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}
		applySettings(cmd, userSettings)
		return nil
	},
}

// applySettings fills flags the user did not pass from persistent settings.
func applySettings(cmd *cobra.Command, s *settings.Settings) {
	flags := cmd.Flags()
	if !flags.Changed("fieldmaps") && fieldMapDir == "" {
		fieldMapDir = s.FieldMapDir
	}
	if !flags.Changed("sync-vlans") {
		syncVLANs = syncVLANs || s.SyncVLANs
	}
	if !flags.Changed("sync-vrfs") {
		syncVRFs = syncVRFs || s.SyncVRFs
	}
	if !flags.Changed("serials") && serialsFile == "" {
		serialsFile = s.SerialsFile
	}
	if !flags.Changed("redis") && redisAddr == "" {
		redisAddr = s.RedisAddr
	}
	if !flags.Changed("redis-db") {
		redisDB = s.RedisDB
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&fieldMapDir, "fieldmaps", "", "Directory of field-map YAML files overriding the built-in maps")
	pf.BoolVar(&syncVLANs, "sync-vlans", false, "Extract VLAN membership fields")
	pf.BoolVar(&syncVRFs, "sync-vrfs", false, "Extract VRF membership fields")
	pf.StringVar(&serialsFile, "serials", "", "JSON file mapping host to inventory serial")
	pf.StringVar(&redisAddr, "redis", "", "Inventory Redis address for serial lookups")
	pf.IntVar(&redisDB, "redis-db", settings.DefaultRedisDB, "Inventory Redis database")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	pf.BoolVar(&logJSON, "log-json", false, "Log in JSON format")

	for _, cmd := range []*cobra.Command{extractCmd, formatCmd, runCmd, fieldmapShowCmd, inventoryListCmd} {
		addOutputFlags(cmd)
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "pipeline", Title: "Pipeline:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{extractCmd, formatCmd, runCmd} {
		cmd.GroupID = "pipeline"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{fieldmapCmd, inventoryCmd, settingsCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

// addOutputFlags registers --json on commands that produce structured output.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "JSON output")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion("onboard")
	},
}

func printVersion(tool string) {
	if version.Version == "dev" {
		fmt.Printf("%s dev build (use 'make build' for version info)\n", tool)
	} else {
		fmt.Printf("%s %s\n", tool, version.Info())
	}
}
