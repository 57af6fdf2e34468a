package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svgbundle/pkg/config"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect svgbundle.toml",
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			opts := config.Defaults()
			opts.BundleFile = "sprite.svg"
			opts.BundleURL = "/sprite.svg"

			var buf bytes.Buffer
			if err := config.WriteTemplate(&buf, opts); err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
			printSuccess("Wrote %s", path)
			printNextStep("Build with it", "svgbundle build src/app.css")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", config.AppName+".toml", "file to write")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after merging defaults, the config file, SVGBUNDLE_* variables and flags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return config.Write(cmd.OutOrStdout(), *opts, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "output format (toml or yaml)")
	addSpriteFlags(cmd.Flags())
	return cmd
}
