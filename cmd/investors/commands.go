package main

import (
	"fmt"
	"investor-lab/domain"
	"investor-lab/projection"
	"investor-lab/repositories"
	"investor-lab/storage"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "investors",
	Short: "Manage the external investors registry",
	Long: `Manage the external investors registry.

The slot is chosen from the environment (or a .env file):
  SLOT_BACKEND  badger | sqlite | memory (default badger)
  SLOT_PATH     directory of the slot (default ./data/investors)
  SEED_LOCALE   ar | en, names of the default records (default ar)`,
	SilenceUsage: true,
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List investors, optionally filtered by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		investors := projection.Filter(a.store.Investors(), filter)
		renderInvestors(cmd.OutOrStdout(), investors)
		return nil
	},
}

// --- add ---

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an investor",
	Long: `Add an investor.

Examples:
  investors add --name "Test Co" --description "Local supplier"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		investor, err := a.store.Add(domain.InvestorInput{Name: name, Description: description})
		if err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), "Added %s (%s)", investor.Name, investor.ID)
		fmt.Fprintln(cmd.OutOrStdout(), investor.ID)
		return nil
	},
}

// --- edit ---

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the name or description of an investor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch domain.InvestorPatch
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			patch.Name = &name
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			patch.Description = &description
		}
		if patch.IsEmpty() {
			return fmt.Errorf("one of --name or --description is required")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		investor, found, err := a.store.Update(args[0], patch)
		if !found {
			printWarning(cmd.ErrOrStderr(), "No investor with id %s", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), "Updated %s", investor.ID)
		return nil
	},
}

// --- delete ---

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an investor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		found, err := a.store.Delete(args[0])
		if err != nil {
			return err
		}
		if !found {
			printWarning(cmd.ErrOrStderr(), "No investor with id %s", args[0])
			return nil
		}
		printSuccess(cmd.ErrOrStderr(), "Deleted %s", args[0])
		return nil
	},
}

// --- inspect ---

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show what the slot holds, raw",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		lister, ok := a.slot.(storage.KeyLister)
		if !ok {
			return fmt.Errorf("slot backend %s cannot list keys", a.config.SlotBackend)
		}
		keys, err := lister.Keys()
		if err != nil {
			return err
		}

		names := make([]string, 0, len(keys))
		for k := range keys {
			names = append(names, k)
		}
		sort.Strings(names)

		rows := make([][]string, 0, len(names))
		for _, k := range names {
			status := "-"
			if k == repositories.InvestorsKey {
				status = investorsStatus(a)
			}
			rows = append(rows, []string{k, strconv.Itoa(keys[k]) + " bytes", status})
		}
		renderTable(cmd.OutOrStdout(), []string{"Key", "Size", "Content"}, rows)
		return nil
	},
}

func investorsStatus(a *app) string {
	data, _, err := a.slot.Get(repositories.InvestorsKey)
	if err != nil {
		return "unreadable: " + err.Error()
	}
	investors, err := repositories.Decode(data)
	if err != nil {
		return "corrupt"
	}
	return fmt.Sprintf("%d investors", len(investors))
}

func init() {
	listCmd.Flags().String("filter", "", "Case-insensitive name filter")

	addCmd.Flags().String("name", "", "Investor name (required, up to 100 characters)")
	addCmd.Flags().String("description", "", "Investor description (up to 500 characters)")
	_ = addCmd.MarkFlagRequired("name")

	editCmd.Flags().String("name", "", "New name")
	editCmd.Flags().String("description", "", "New description")

	rootCmd.AddCommand(serveCmd, listCmd, addCmd, editCmd, deleteCmd, inspectCmd)
}
