package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netonboard/pkg/cli"
	"github.com/newtron-network/netonboard/pkg/fieldmap"
)

var fieldmapCmd = &cobra.Command{
	Use:   "fieldmap",
	Short: "Inspect and validate field maps",
	Long: `Inspect and validate the per-platform field maps.

Examples:
  onboard fieldmap validate ./fieldmaps
  onboard fieldmap show --platform cisco_ios
  onboard fieldmap show --platform cisco_nxos --domain sync_devices --json`,
}

var fieldmapValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Load and validate a field-map directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := fieldMapDir
		if len(args) > 0 {
			dir = args[0]
		}

		var (
			set *fieldmap.Set
			err error
		)
		if dir == "" {
			dir = "(built-in)"
			set, err = fieldmap.Default()
		} else {
			set, err = fieldmap.LoadDir(dir)
		}
		if err != nil {
			fmt.Printf("%s %s\n", cli.DotPad(dir, 40), cli.Red("FAIL"))
			return err
		}

		fmt.Printf("%s %s\n\n", cli.DotPad(dir, 40), cli.Green("OK"))
		t := cli.NewTable("PLATFORM", "DOMAINS", "FIELDS").WithPrefix("  ")
		for _, p := range set.PlatformNames() {
			domains := make([]string, 0, len(set.Platforms[p].Domains))
			fields := 0
			for name, d := range set.Platforms[p].Domains {
				domains = append(domains, name)
				fields += len(d.Fields)
			}
			sort.Strings(domains)
			t.Row(p, strings.Join(domains, ", "), strconv.Itoa(fields))
		}
		t.Flush()
		return nil
	},
}

var (
	showPlatform string
	showDomain   string
)

var fieldmapShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the fields of one platform domain",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadFieldMaps()
		if err != nil {
			return err
		}
		d, err := set.Domain(showPlatform, showDomain)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(d)
		}

		fmt.Printf("%s / %s\n\n", cli.Bold(showPlatform), d.Name)
		t := cli.NewTable("FIELD", "SCOPE", "ROOT", "COMMAND", "PARSER", "JPATH")
		for _, f := range d.Fields {
			scope := string(f.EffectiveScope())
			if scope == "" {
				scope = "-"
			}
			for i, c := range f.Commands {
				name, sc, root := f.Name, scope, ""
				if i > 0 {
					name, sc = "", ""
				}
				if f.IsRootKey(&c) {
					root = "yes"
				}
				t.Row(name, sc, root, c.Command, string(c.Parser), cli.Truncate(c.JPath, 60))
			}
		}
		t.Flush()
		fmt.Printf("\nCommands: %s\n", cli.Dim(strings.Join(d.Commands(), "; ")))
		return nil
	},
}

func init() {
	fieldmapShowCmd.Flags().StringVar(&showPlatform, "platform", "", "Device platform")
	fieldmapShowCmd.Flags().StringVar(&showDomain, "domain", fieldmap.DomainSyncNetworkData, "Sync domain")
	fieldmapShowCmd.MarkFlagRequired("platform")

	fieldmapCmd.AddCommand(fieldmapValidateCmd)
	fieldmapCmd.AddCommand(fieldmapShowCmd)
}
