package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/manybody/secondq/config"
	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/logger"
	"github.com/manybody/secondq/store"
)

// ArchiveCmd represents the archive command
var ArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage archived derivation results",
	Long: `List, inspect, and delete derivation results saved with derive --save.

Examples:
  secondq archive list
  secondq archive show 3f1c...
  secondq archive delete 3f1c...`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived derivations, newest first",
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one archived derivation",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived derivation",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveDelete,
}

func init() {
	ArchiveCmd.AddCommand(archiveListCmd)
	ArchiveCmd.AddCommand(archiveShowCmd)
	ArchiveCmd.AddCommand(archiveDeleteCmd)
}

// openArchive opens the configured archive with migrations applied.
func openArchive() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	db, err := store.OpenWithMigrations(cfg.Archive.Path, logger.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "open archive")
	}
	return db, nil
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	db, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := store.NewDerivationStore(db).List(context.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		pterm.Info.Println("Archive is empty")
		return nil
	}

	table := pterm.TableData{{"ID", "Name", "Kind", "Terms", "Created"}}
	for _, d := range list {
		table = append(table, []string{
			d.ID,
			d.Name,
			d.Kind,
			fmt.Sprintf("%d", d.TermCount),
			d.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	db, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	d, err := store.NewDerivationStore(db).Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("ID:      %s\n", d.ID)
	fmt.Printf("Name:    %s\n", d.Name)
	fmt.Printf("Kind:    %s\n", d.Kind)
	fmt.Printf("Terms:   %d\n", d.TermCount)
	if d.Order > 0 {
		fmt.Printf("Order:   %d\n", d.Order)
	}
	fmt.Printf("Created: %s\n", d.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("\nInput:\n%s\n", d.Input)
	fmt.Printf("\nResult:\n%s\n", d.Result)
	return nil
}

func runArchiveDelete(cmd *cobra.Command, args []string) error {
	db, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.NewDerivationStore(db).Delete(context.Background(), args[0]); err != nil {
		return err
	}
	pterm.Success.Printf("Deleted derivation %s\n", args[0])
	return nil
}
