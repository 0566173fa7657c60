// Command artifactctl inspects, verifies and stores serialized FHE artifacts.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/tfheartifacts/config"
)

type options struct {
	configFile string
}

// Shared state of all subcommands, initialized before a subcommand runs.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	closer io.Closer
}

func (a *app) init(opts *options) error {
	if opts.configFile == "" {
		a.cfg = config.Default()
	} else {
		cfg, err := config.LoadFile(opts.configFile)
		if err != nil {
			return fmt.Errorf("failed to load config file '%v': %v", opts.configFile, err)
		}
		a.cfg = cfg
	}

	log, closer, err := a.cfg.Logger()
	if err != nil {
		return err
	}
	a.log, a.closer = log, closer
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func newRootCommand() *cobra.Command {
	var (
		opts options
		a    app
	)

	cmd := &cobra.Command{
		Use:   "artifactctl",
		Short: "Inspect, verify and store serialized FHE artifacts",
		Long: `artifactctl works on artifacts written by the safe serialization envelope: a header naming the
type and the versioning mode, followed by the (optionally versioned) payload.

Artifacts can be inspected (header only), fully decoded and upgraded to the current shape,
and kept in a content-addressed store keyed by their CIDv1.`,
		Example: `  # Show the header of an artifact
  artifactctl inspect ksk.bin

  # Decode an artifact, applying the configured size limit
  artifactctl -f artifactctl.toml verify --type LweKeyswitchKey ksk.bin

  # Store an artifact and read it back
  artifactctl store put ksk.bin
  artifactctl store get bafkrei... -o ksk.bin`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(&opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "f", "",
		"path to the configuration file (TOML format), defaults are used if omitted")

	cmd.AddCommand(newInspectCommand(&a), newVerifyCommand(&a), newStoreCommand(&a))
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
