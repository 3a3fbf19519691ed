package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/flatsheet/flatsheet/store"
)

var adduserCmdFlags struct {
	Username string
	Password string
	Role     string
}

var adduserCmd = &cobra.Command{
	Use:     "adduser",
	Short:   "Add a user to the credentials file",
	Long:    `Adds a user record to the credentials file without going through the web registration flow. Fails when the username is already taken.`,
	Example: `flatsheet adduser --username alice --password s3cret --role employee`,
	Run:     adduser,
}

func init() {
	adduserCmd.Flags().StringVar(&adduserCmdFlags.Username, "username", "", "Username of the new account")
	adduserCmd.Flags().StringVar(&adduserCmdFlags.Password, "password", "", "Password of the new account")
	adduserCmd.Flags().StringVar(&adduserCmdFlags.Role, "role", string(store.RoleEmployee), "Role of the new account (admin or employee)")
	_ = adduserCmd.MarkFlagRequired("username")
	_ = adduserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(adduserCmd)
}

func adduser(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	role := store.Role(adduserCmdFlags.Role)
	if role != store.RoleAdmin && role != store.RoleEmployee {
		log.Fatalf("invalid role %q, must be %q or %q", adduserCmdFlags.Role, store.RoleAdmin, store.RoleEmployee)
	}

	users, _, err := openStores(cfg)
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}

	if err := users.Add(adduserCmdFlags.Username, adduserCmdFlags.Password, role); err != nil {
		log.Fatalf("failed to add user: %v", err)
	}
	log.Info("added user", "username", adduserCmdFlags.Username, "role", role)
}
