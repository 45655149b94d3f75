// Package types defines the shared data shapes of cpconfig: the filesystem
// abstraction, the fully-resolved synchronization target, and the per-file
// and aggregate result records returned by a sync invocation.
package types

import (
	"io/fs"
)

// FS abstracts the file system operations the reconciler and the ignore
// manager need. Implementations live in pkg/filesystem.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
}

// FileAction describes what the reconciler did (or would do) to a target.
type FileAction string

const (
	ActionCreated   FileAction = "created"
	ActionUpdated   FileAction = "updated"
	ActionUnchanged FileAction = "unchanged"
)

// Target is a fully-resolved synchronization unit. By the time a Target
// exists, all optional caller input has been normalized: the content
// provider has been invoked, the path is canonical and root-relative, and
// defaults are filled in. The reconciler and ignore manager never see
// optional/absent values.
type Target struct {
	// RelPath is the canonical, forward-slash, root-relative path.
	RelPath string
	// AbsPath is RelPath resolved against the root directory.
	AbsPath string
	// Contents is the desired file content.
	Contents string
	// Sentinel is the overwrite-gating substring, empty when unmanaged
	// overwrite protection is not requested.
	Sentinel string
	// Mode is the permission applied at creation time only.
	Mode fs.FileMode
	// HasMode reports whether Mode was declared by the caller.
	HasMode bool
	// Gitignore reports whether this target participates in the managed
	// ignore block.
	Gitignore bool
}

// FileResult is the per-target outcome record.
type FileResult struct {
	Path         string     `json:"path"`
	AbsolutePath string     `json:"absolutePath"`
	Action       FileAction `json:"action"`
	Skipped      bool       `json:"skipped"`
	Gitignored   bool       `json:"gitignored"`
	Managed      bool       `json:"managed"`
	Warning      string     `json:"warning,omitempty"`
}

// GitignoreResult reports what the ignore-block manager did.
type GitignoreResult struct {
	Path    string   `json:"path"`
	Updated bool     `json:"updated"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Skipped bool     `json:"skipped"`
}

// Result is the aggregate outcome of one sync invocation.
type Result struct {
	RootDir   string          `json:"rootDir"`
	Files     []FileResult    `json:"files"`
	Gitignore GitignoreResult `json:"gitignore"`
}
