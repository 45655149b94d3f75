// Package genconfig implements the gen-config command, which writes a
// starter manifest into the root directory.
package genconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// starterManifest is marshaled into the generated .cpconfig.toml.
type starterManifest struct {
	Encoding string                 `toml:"encoding"`
	Files    map[string]starterFile `toml:"files"`
}

type starterFile struct {
	Contents  string `toml:"contents,omitempty"`
	Sentinel  string `toml:"sentinel,omitempty"`
	Gitignore *bool  `toml:"gitignore,omitempty"`
}

// NewCommand creates the gen-config command
func NewCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "gen-config [directory]",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return run(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing manifest")

	return cmd
}

func run(cmd *cobra.Command, dir string, force bool) error {
	target := filepath.Join(dir, ".cpconfig.toml")

	if !force {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}
	}

	sentinel := "managed-by-cpconfig"
	tracked := true
	manifest := starterManifest{
		Encoding: "utf-8",
		Files: map[string]starterFile{
			"settings/example.conf": {
				Contents:  "# " + sentinel + "\nexample = true\n",
				Sentinel:  sentinel,
				Gitignore: &tracked,
			},
		},
	}

	data, err := toml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("cannot marshal starter manifest: %w", err)
	}

	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", target, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
	return nil
}
