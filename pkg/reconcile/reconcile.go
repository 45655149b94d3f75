// Package reconcile decides, for each declared target, whether the file on
// disk must be created or rewritten, and applies the change unless running
// in dry-run mode. Files that diverged from a sentineled target without
// carrying the sentinel are left untouched and reported with a warning.
package reconcile

import (
	goerrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cpconfig/cpconfig/pkg/errors"
	"github.com/cpconfig/cpconfig/pkg/logging"
	"github.com/cpconfig/cpconfig/pkg/textenc"
	"github.com/cpconfig/cpconfig/pkg/types"
)

// defaultFileMode is used when the target declares no creation mode.
const defaultFileMode fs.FileMode = 0644

// defaultDirMode is used for recursively created parent directories.
const defaultDirMode fs.FileMode = 0755

// Reconciler applies declared targets to the file system.
type Reconciler struct {
	fs     types.FS
	codec  *textenc.Codec
	dryRun bool
}

// New creates a reconciler. The codec converts between the declared text
// encoding and Go strings; dryRun computes outcomes without writing.
func New(filesystem types.FS, codec *textenc.Codec, dryRun bool) *Reconciler {
	return &Reconciler{
		fs:     filesystem,
		codec:  codec,
		dryRun: dryRun,
	}
}

// ReconcileFile produces the outcome record for one target and, unless in
// dry-run mode, makes the file system match the target's contents. File
// system failures other than "not found" on the initial read are fatal for
// the whole invocation.
func (r *Reconciler) ReconcileFile(target types.Target) (types.FileResult, error) {
	logger := logging.GetLogger("reconcile").With().
		Str("path", target.RelPath).
		Bool("dry_run", r.dryRun).
		Logger()

	result := types.FileResult{
		Path:         target.RelPath,
		AbsolutePath: target.AbsPath,
		Gitignored:   target.Gitignore,
		Managed:      true,
	}

	existing, exists, err := r.readExisting(target.AbsPath)
	if err != nil {
		return result, err
	}

	switch {
	case !exists:
		result.Action = types.ActionCreated

	case existing == target.Contents:
		result.Action = types.ActionUnchanged

	case target.Sentinel == "" || strings.Contains(existing, target.Sentinel):
		result.Action = types.ActionUpdated

	default:
		// The on-disk file diverged and does not carry the sentinel:
		// hand-edited outside our management, leave it alone.
		result.Action = types.ActionUnchanged
		result.Skipped = true
		result.Managed = false
		result.Gitignored = false
		result.Warning = "file exists without the expected sentinel, left untouched"
		logger.Warn().Str("sentinel", target.Sentinel).Msg("Refusing to overwrite unmanaged file")
		return result, nil
	}

	if result.Action == types.ActionUnchanged {
		logger.Debug().Msg("File already up to date")
		return result, nil
	}

	if r.dryRun {
		logger.Info().Str("action", string(result.Action)).Msg("Dry run, skipping write")
		return result, nil
	}

	if err := r.write(target, !exists); err != nil {
		return result, err
	}

	logger.Info().Str("action", string(result.Action)).Msg("File written")
	return result, nil
}

// readExisting reads and decodes the current file content. A missing file
// is reported through the exists flag, not as an error.
func (r *Reconciler) readExisting(absPath string) (content string, exists bool, err error) {
	data, err := r.fs.ReadFile(absPath)
	if err != nil {
		if goerrors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", absPath)
	}

	decoded, err := r.codec.Decode(data)
	if err != nil {
		return "", true, err
	}
	return decoded, true, nil
}

// write encodes and writes the target contents, creating parent
// directories as needed. The declared creation mode applies only when the
// file did not previously exist; rewrites never touch permissions.
func (r *Reconciler) write(target types.Target, creating bool) error {
	data, err := r.codec.Encode(target.Contents)
	if err != nil {
		return err
	}

	if err := r.fs.MkdirAll(filepath.Dir(target.AbsPath), defaultDirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create parent directory for %s", target.AbsPath)
	}

	perm := defaultFileMode
	if creating && target.HasMode {
		perm = target.Mode
	}

	if err := r.fs.WriteFile(target.AbsPath, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", target.AbsPath)
	}
	return nil
}
