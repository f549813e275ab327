package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ndnc-automation/ndncctl/internal/config"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Browse saved console exports",
}

var consoleListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved console exports, newest first",
	Args:    cobra.NoArgs,
	RunE:    runConsoleList,
}

var consoleShowCmd = &cobra.Command{
	Use:   "show <export-id>",
	Short: "Print a saved console export",
	Args:  cobra.ExactArgs(1),
	RunE:  runConsoleShow,
}

func init() {
	consoleCmd.AddCommand(consoleListCmd)
	consoleCmd.AddCommand(consoleShowCmd)
}

func runConsoleList(cmd *cobra.Command, args []string) error {
	exports, err := config.ListConsoleExports()
	if err != nil {
		return fmt.Errorf("failed to list exports: %w", err)
	}
	if len(exports) == 0 {
		fmt.Println(styleHint.Render("No saved console exports. Press Ctrl+s in the dashboard to save one."))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSAVED\tENTRIES\tSERVER")
	for _, e := range exports {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.ExportID, e.SavedAt, e.Entries, e.Server)
	}
	return w.Flush()
}

func runConsoleShow(cmd *cobra.Command, args []string) error {
	export, body, err := config.ReadConsoleExport(strings.TrimSuffix(args[0], ".log"))
	if err != nil {
		return err
	}
	fmt.Printf("%s %s  %s %s\n",
		styleLabel.Render("Saved:"), styleValue.Render(export.SavedAt),
		styleLabel.Render("Server:"), styleValue.Render(export.Server))
	fmt.Print(body)
	return nil
}
