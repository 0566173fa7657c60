package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/tfheartifacts/safeserialization"
	"github.com/smartcontractkit/tfheartifacts/store"
)

func newInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the header of an artifact without decoding its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			header, err := safeserialization.ReadHeader(data, safeserialization.DefaultEnvironment)
			if err != nil {
				return err
			}
			id, err := store.ComputeCID(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type:               %s\n", header.Name)
			fmt.Fprintf(out, "mode:               %s\n", header.Mode)
			fmt.Fprintf(out, "header version:     %s\n", header.HeaderVersion)
			fmt.Fprintf(out, "versioning version: %s\n", header.VersioningVersion)
			fmt.Fprintf(out, "size:               %d\n", len(data))
			fmt.Fprintf(out, "cid:                %s\n", id)

			a.log.WithField("file", args[0]).Debug("artifact inspected")
			return nil
		},
	}
}

func newVerifyCommand(a *app) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "verify --type TYPE FILE",
		Short: "Decode an artifact of the given type and upgrade it to the current shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verify, ok := artifactTypes[typeName]
			if !ok {
				return fmt.Errorf("invalid argument: unknown type %q, expected one of %s", typeName, typeNames())
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			cfg := a.cfg.UncheckedDeserializationConfig().WithLogger(a.log)
			summary, err := verify(f, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s: %s\n", typeName, summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "expected artifact type, one of "+typeNames())
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
