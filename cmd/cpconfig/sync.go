package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cpconfig/cpconfig/pkg/config"
	"github.com/cpconfig/cpconfig/pkg/sync"
)

// runSync discovers the manifest, runs the synchronization, and renders
// the report. Warnings do not affect the exit status; fatal errors do.
func runSync(cmd *cobra.Command) error {
	root := rootDir
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	manifestPath, err := config.Discover(root, configPath)
	if err != nil {
		return err
	}

	manifest, err := config.Load(manifestPath, root)
	if err != nil {
		return err
	}

	// Flag overrides win over manifest-level settings.
	ignorePath := manifest.GitignorePath
	if gitignorePath != "" {
		ignorePath = gitignorePath
	}

	result, err := sync.Sync(manifest.Files, sync.Options{
		RootDir:       root,
		DryRun:        dryRun,
		Encoding:      manifest.Encoding,
		GitignorePath: ignorePath,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return renderJSON(cmd.OutOrStdout(), result)
	}
	renderReport(cmd.OutOrStdout(), result, dryRun)
	return nil
}
