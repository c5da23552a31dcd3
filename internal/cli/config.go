package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create configuration files",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

// configShowCommand prints the effective configuration.
func (c *CLI) configShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := c.loadConfig()
			if err != nil {
				return err
			}
			if path == "" {
				path = "(built-in defaults)"
			}
			printKeyValue("source", path)
			printKeyValue("format", format)
			return config.Encode(stdout, cfg, config.Format(format))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(config.FormatTOML), "output format: toml, yaml")
	return cmd
}

// configInitCommand writes the defaults to a new file.
func (c *CLI) configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with every default spelled out",
		Long: `Write a config file with every default spelled out.

The format follows the extension (.toml, .yaml or .yml). Existing files are
never overwritten. The default path is ./forcelayout.toml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "forcelayout.toml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Write(path, config.Default()); err != nil {
				return err
			}
			printSuccess("Wrote %s", StyleTitle.Render(path))
			return nil
		},
	}
}
