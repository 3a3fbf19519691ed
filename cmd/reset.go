package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var resetCmdFlags struct {
	KeepUsers bool
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the sheet and credentials files",
	Long:  `This command deletes the CSV data files. The sheet is recreated with its default shape on the next load; without --keep-users the default admin is reseeded on the next server start.`,
	Run:   reset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetCmdFlags.KeepUsers, "keep-users", false, "Only delete the sheet file, keep credentials")

	rootCmd.AddCommand(resetCmd)
}

func reset(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	paths := []string{cfg.SheetPath()}
	if !resetCmdFlags.KeepUsers {
		paths = append(paths, cfg.UsersPath())
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Fatalf("failed to remove %s: %v", path, err)
		}
		log.Info("removed", "file", path)
	}
}
