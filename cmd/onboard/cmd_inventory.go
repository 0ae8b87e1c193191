package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/netonboard/pkg/cli"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Manage inventory serials in Redis",
	Long: `Manage the host -> serial table used to cross-check devices.

Serials are stored as DEVICE|<host> hashes with a serial field.

Examples:
  onboard inventory list --redis 127.0.0.1:6379
  onboard inventory set 192.0.2.10 FOC2231X0AB`,
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known serials",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		r, err := connectInventory(ctx)
		if err != nil {
			return err
		}
		defer r.Close()

		serials, err := r.Serials(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(serials)
		}
		if len(serials) == 0 {
			fmt.Println("No serials in inventory")
			return nil
		}
		t := cli.NewTable("HOST", "SERIAL")
		for _, host := range sortedHosts(serials) {
			t.Row(host, serials[host])
		}
		t.Flush()
		return nil
	},
}

var inventorySetCmd = &cobra.Command{
	Use:   "set <host> <serial>",
	Short: "Record the serial of a host",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		r, err := connectInventory(ctx)
		if err != nil {
			return err
		}
		defer r.Close()

		if err := r.SetSerial(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Serial for %s set to: %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventorySetCmd)
}
