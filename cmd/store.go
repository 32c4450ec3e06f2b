package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"

	"parsort/kvdb"
	"parsort/numio"
)

var storeBackend string
var storePath string

func init() {
	storeCmd.PersistentFlags().StringVarP(&storeBackend, "backend", "b", kvdb.BackendBbolt,
		"kvdb backend: bbolt, badger or pebble")
	storeCmd.PersistentFlags().StringVarP(&storePath, "path", "p", "",
		"Location of the kvdb store (default ./parsort-<backend>)")

	storeCmd.AddCommand(storeImportCmd, storeExportCmd, storeListCmd, storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage datasets kept in an embedded key-value store",
}

var storeImportCmd = &cobra.Command{
	Use:   "import <dataset> <file>",
	Short: "Load a number file into a dataset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s kvdb.Store) error {
			data, err := numio.ReadFile(args[1])
			if err != nil {
				return err
			}
			if err := s.Save(args[0], data); err != nil {
				return err
			}
			jww.INFO.Printf("Imported %d numbers into %q", len(data), args[0])
			return nil
		})
	},
}

var storeExportCmd = &cobra.Command{
	Use:   "export <dataset> <file>",
	Short: "Write a dataset to a number file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s kvdb.Store) error {
			data, err := s.Load(args[0])
			if err != nil {
				return err
			}
			return numio.WriteFile(args[1], data)
		})
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s kvdb.Store) error {
			names, err := s.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		})
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <dataset>",
	Short: "Remove a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s kvdb.Store) error {
			return s.Delete(args[0])
		})
	},
}

func withStore(fn func(kvdb.Store) error) error {
	s, err := kvdb.Open(storeBackend, resolveStorePath(storeBackend, storePath))
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}
