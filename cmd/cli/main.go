// Command endpointkit picks the fastest endpoint from the command line and
// reads or writes records in the local store.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hamed0406/endpointkit/internal/storage"
)

var version = "dev"

func init() {
	cobra.OnInitialize(initConfig)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "endpointkit",
		Short:         "Pick the fastest endpoint and keep small records",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
	}

	root.PersistentFlags().String("storage-driver", "sqlite", "storage engine (sqlite|postgres|mysql)")
	root.PersistentFlags().String("storage-dir", "data", "directory for sqlite databases")
	root.PersistentFlags().String("storage-dsn", "", "server DSN for postgres/mysql")

	root.AddCommand(newSelectCmd(), newPutCmd(), newGetCmd(), newVersionCmd())
	return root
}

// initConfig loads .env files and maps ENDPOINTKIT_* variables onto flags.
func initConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("endpointkit")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "endpointkit", version)
		},
	}
}

func openRecords() (*storage.Records, error) {
	engine, err := storage.NewEngine(
		viper.GetString("storage-driver"),
		viper.GetString("storage-dir"),
		viper.GetString("storage-dsn"),
	)
	if err != nil {
		return nil, err
	}
	return storage.NewRecords(storage.NewCache(engine, zap.NewNop())), nil
}
