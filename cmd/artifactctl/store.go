package main

import (
	"fmt"
	"os"

	"github.com/ipfs/go-cid"
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/tfheartifacts/store"
)

func newStoreCommand(a *app) *cobra.Command {
	var path string

	open := func() (*store.Store, error) {
		if path == "" {
			path = a.cfg.Store.Path
		}
		return store.Open(path, store.WithLogger(a.log))
	}

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the content-addressed artifact store",
	}
	cmd.PersistentFlags().StringVarP(&path, "store", "s", "", "path to the store database, overrides the configuration")

	put := &cobra.Command{
		Use:   "put FILE...",
		Short: "Add artifacts to the store and print their CIDs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, file := range args {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				id, err := s.Put(data)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	var output string
	get := &cobra.Command{
		Use:   "get CID",
		Short: "Write a stored artifact to stdout or a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cid.Decode(args[0])
			if err != nil {
				return fmt.Errorf("invalid argument: %w", err)
			}
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := s.Get(id)
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, data, 0o600)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	get.Flags().StringVarP(&output, "output", "o", "", "output file")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the stored artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			return s.List(func(id cid.Cid, md store.Metadata) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\n", id, md.TypeName, md.Mode, md.Size)
				return err
			})
		},
	}

	cmd.AddCommand(put, get, list)
	return cmd
}
