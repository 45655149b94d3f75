// Package sync is the entry point consumed by the CLI and by library
// callers. It normalizes the declared file map into fully-resolved targets,
// runs the file reconciler over them in deterministic order, and finishes
// by reconciling the managed block of the ignore-list file.
package sync

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cpconfig/cpconfig/pkg/errors"
	"github.com/cpconfig/cpconfig/pkg/filesystem"
	"github.com/cpconfig/cpconfig/pkg/ignore"
	"github.com/cpconfig/cpconfig/pkg/logging"
	"github.com/cpconfig/cpconfig/pkg/paths"
	"github.com/cpconfig/cpconfig/pkg/reconcile"
	"github.com/cpconfig/cpconfig/pkg/textenc"
	"github.com/cpconfig/cpconfig/pkg/types"
)

// FileDecl declares one file to synchronize. Exactly one content source
// must be set: a literal Contents string (empty is a valid literal when
// ContentsFunc is nil) or a ContentsFunc provider, which is invoked exactly
// once per invocation.
type FileDecl struct {
	Contents     string
	ContentsFunc func() (string, error)
	// Gitignore controls participation in the managed ignore block.
	// nil means true.
	Gitignore *bool
	// Mode is the permission applied at creation time only. Zero means
	// no declared mode.
	Mode fs.FileMode
	// Sentinel gates overwriting of pre-existing, diverged files. It
	// must occur in the resolved contents.
	Sentinel string
}

// Options configure one sync invocation.
type Options struct {
	// RootDir is the directory declared paths resolve against.
	// Defaults to the current working directory.
	RootDir string
	// DryRun computes the full outcome report with zero mutation.
	DryRun bool
	// Encoding is the IANA charset name for file content. Defaults to
	// utf-8.
	Encoding string
	// GitignorePath overrides the ignore-list file location. Relative
	// paths resolve against RootDir. Defaults to <RootDir>/.gitignore.
	GitignorePath string
	// FS overrides the file system implementation, mainly for tests.
	FS types.FS
}

// Sync reconciles the declared files against the root directory and
// maintains the managed ignore block. All input validation happens before
// any file system change; validation failures abort with no changes made.
// File system failures abort immediately, keeping writes already applied.
func Sync(files map[string]FileDecl, opts Options) (*types.Result, error) {
	logger := logging.GetLogger("sync")

	rootDir, gitignorePath, fsImpl, codec, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	targets, err := buildTargets(files, rootDir)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("root", rootDir).
		Int("targets", len(targets)).
		Bool("dry_run", opts.DryRun).
		Msg("Starting sync")

	reconciler := reconcile.New(fsImpl, codec, opts.DryRun)

	result := &types.Result{
		RootDir: rootDir,
		Files:   make([]types.FileResult, 0, len(targets)),
	}

	var tracked []string
	for _, target := range targets {
		fileResult, err := reconciler.ReconcileFile(target)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, fileResult)
		if fileResult.Gitignored {
			tracked = append(tracked, target.RelPath)
		}
	}

	manager := ignore.New(fsImpl, opts.DryRun)
	gitignoreResult, err := manager.Apply(gitignorePath, tracked)
	if err != nil {
		return nil, err
	}
	result.Gitignore = gitignoreResult

	return result, nil
}

// resolveOptions fills in option defaults and resolves derived values.
func resolveOptions(opts Options) (rootDir, gitignorePath string, fsImpl types.FS, codec *textenc.Codec, err error) {
	rootDir = opts.RootDir
	if rootDir == "" {
		rootDir, err = os.Getwd()
		if err != nil {
			return "", "", nil, nil, errors.Wrap(err, errors.ErrInternal, "cannot determine working directory")
		}
	}
	rootDir, err = filepath.Abs(rootDir)
	if err != nil {
		return "", "", nil, nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid root directory %q", opts.RootDir)
	}

	gitignorePath = opts.GitignorePath
	switch {
	case gitignorePath == "":
		gitignorePath = filepath.Join(rootDir, ".gitignore")
	case !filepath.IsAbs(gitignorePath):
		gitignorePath = filepath.Join(rootDir, gitignorePath)
	}

	fsImpl = opts.FS
	if fsImpl == nil {
		fsImpl = filesystem.NewOS()
	}

	codec, err = textenc.Lookup(opts.Encoding)
	if err != nil {
		return "", "", nil, nil, err
	}

	return rootDir, gitignorePath, fsImpl, codec, nil
}

// buildTargets normalizes and validates every declaration before any file
// system operation. Content providers are invoked here, exactly once per
// target. Targets come back sorted by relative path so invocations are
// deterministic regardless of map iteration order.
func buildTargets(files map[string]FileDecl, rootDir string) ([]types.Target, error) {
	declared := make([]string, 0, len(files))
	for rel := range files {
		declared = append(declared, rel)
	}
	sort.Strings(declared)

	seen := make(map[string]string, len(declared))
	targets := make([]types.Target, 0, len(declared))

	for _, rel := range declared {
		decl := files[rel]

		normalized, err := paths.Normalize(rel)
		if err != nil {
			return nil, err
		}
		if prior, dup := seen[normalized]; dup {
			return nil, errors.Newf(errors.ErrDuplicatePath,
				"paths %q and %q both normalize to %q", prior, rel, normalized)
		}
		seen[normalized] = rel

		absPath, err := paths.Resolve(rootDir, normalized)
		if err != nil {
			return nil, err
		}

		contents, err := resolveContents(normalized, decl)
		if err != nil {
			return nil, err
		}

		if decl.Sentinel != "" && !strings.Contains(contents, decl.Sentinel) {
			return nil, errors.Newf(errors.ErrSentinelMissing,
				"sentinel %q does not occur in the desired contents of %q", decl.Sentinel, normalized)
		}

		gitignored := true
		if decl.Gitignore != nil {
			gitignored = *decl.Gitignore
		}

		targets = append(targets, types.Target{
			RelPath:   normalized,
			AbsPath:   absPath,
			Contents:  contents,
			Sentinel:  decl.Sentinel,
			Mode:      decl.Mode,
			HasMode:   decl.Mode != 0,
			Gitignore: gitignored,
		})
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].RelPath < targets[j].RelPath
	})

	return targets, nil
}

// resolveContents picks the declared content source and invokes a provider
// when present.
func resolveContents(rel string, decl FileDecl) (string, error) {
	if decl.ContentsFunc == nil {
		return decl.Contents, nil
	}
	if decl.Contents != "" {
		return "", errors.Newf(errors.ErrContentsInvalid,
			"%q declares both literal contents and a contents provider", rel)
	}
	contents, err := decl.ContentsFunc()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrContentsInvalid,
			"contents provider for %q failed", rel)
	}
	return contents, nil
}
