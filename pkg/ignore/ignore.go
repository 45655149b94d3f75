// Package ignore maintains exactly one machine-managed block of entries
// inside an ignore-list file. The block is introduced by a fixed marker
// line and terminated by the first blank or comment line that follows it
// (or end of file). All unrelated file content is preserved in position
// and content.
//
// Entries are written root-anchored (leading slash) so they never match a
// same-named file in a subdirectory. Legacy unanchored entries are
// canonicalized during comparison, so a file that already lists the same
// paths without anchors is treated as up to date rather than rewritten.
package ignore

import (
	goerrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cpconfig/cpconfig/pkg/errors"
	"github.com/cpconfig/cpconfig/pkg/logging"
	"github.com/cpconfig/cpconfig/pkg/types"
)

// Marker introduces the managed block. Only the first occurrence in the
// file is treated as the managed block; later duplicates are ordinary
// content.
const Marker = "# Managed by cpconfig"

// Manager rewrites the managed block of an ignore-list file.
type Manager struct {
	fs     types.FS
	dryRun bool
}

// New creates an ignore-block manager.
func New(filesystem types.FS, dryRun bool) *Manager {
	return &Manager{fs: filesystem, dryRun: dryRun}
}

// Apply reconciles the managed block of the file at path against the given
// candidate entries. With zero usable entries the file is not touched at
// all, not even created. When the existing block already lists exactly the
// desired entries in order, no write occurs.
func (m *Manager) Apply(path string, candidates []string) (types.GitignoreResult, error) {
	logger := logging.GetLogger("ignore").With().
		Str("path", path).
		Bool("dry_run", m.dryRun).
		Logger()

	result := types.GitignoreResult{
		Path:    path,
		Added:   []string{},
		Removed: []string{},
	}

	desired := normalizeEntries(candidates)
	if len(desired) == 0 {
		logger.Debug().Msg("No entries to track, leaving ignore file alone")
		result.Skipped = true
		return result, nil
	}

	content, err := m.readFile(path)
	if err != nil {
		return result, err
	}

	rest, existingRaw := splitManagedBlock(splitLines(content))
	existing := normalizeEntries(existingRaw)

	if sequencesEqual(existing, desired) {
		logger.Debug().Int("entries", len(desired)).Msg("Managed block already up to date")
		return result, nil
	}

	result.Added = difference(desired, existing)
	result.Removed = difference(existing, desired)

	rebuilt := render(rest, desired)

	if !m.dryRun {
		if err := m.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return result, errors.Wrapf(err, errors.ErrDirCreate, "cannot create parent directory for %s", path)
		}
		if err := m.fs.WriteFile(path, []byte(rebuilt), 0644); err != nil {
			return result, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
		}
	}

	result.Updated = true
	logger.Info().
		Strs("added", result.Added).
		Strs("removed", result.Removed).
		Msg("Managed block rewritten")
	return result, nil
}

// readFile returns the current file content, treating absence as empty.
func (m *Manager) readFile(path string) (string, error) {
	data, err := m.fs.ReadFile(path)
	if err != nil {
		if goerrors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}
	return string(data), nil
}

// normalizeEntries canonicalizes candidates to the anchored entry form,
// dropping blanks and comments and deduplicating in first-seen order.
func normalizeEntries(candidates []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(candidates))
	for _, raw := range candidates {
		entry, ok := normalizeEntry(raw)
		if !ok {
			continue
		}
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	return out
}

// normalizeEntry canonicalizes one candidate: trim, reject blanks and
// comments, forward slashes, strip "./", anchor to the root.
func normalizeEntry(raw string) (string, bool) {
	entry := strings.TrimSpace(raw)
	if entry == "" || strings.HasPrefix(entry, "#") {
		return "", false
	}
	entry = strings.ReplaceAll(entry, "\\", "/")
	entry = strings.TrimPrefix(entry, "./")
	entry = strings.TrimPrefix(entry, "/")
	if entry == "" {
		return "", false
	}
	return "/" + entry, true
}

// splitLines normalizes line endings and splits content into lines without
// a trailing empty element for the final newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitManagedBlock removes the managed block from the file's lines. It
// returns the remaining lines and the raw entry lines that were inside the
// block. The block is the first marker line plus the contiguous run of
// following lines up to the first blank or comment line; one blank
// separator line immediately after the block is consumed with it.
func splitManagedBlock(lines []string) (rest []string, blockEntries []string) {
	markerAt := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == Marker {
			markerAt = i
			break
		}
	}
	if markerAt == -1 {
		return lines, nil
	}

	rest = append(rest, lines[:markerAt]...)

	i := markerAt + 1
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			break
		}
		blockEntries = append(blockEntries, lines[i])
		i++
	}

	// Consume the one blank separator that render() emits after prior
	// content, if present right after the block.
	if i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}

	rest = append(rest, lines[i:]...)
	return rest, blockEntries
}

// render rebuilds the full file content: unrelated lines first (trailing
// blanks trimmed), one blank separator when there is prior content, the
// marker, each entry on its own line, exactly one trailing newline.
func render(rest []string, entries []string) string {
	for len(rest) > 0 && strings.TrimSpace(rest[len(rest)-1]) == "" {
		rest = rest[:len(rest)-1]
	}

	var b strings.Builder
	if len(rest) > 0 {
		b.WriteString(strings.Join(rest, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(Marker)
	b.WriteString("\n")
	for _, entry := range entries {
		b.WriteString(entry)
		b.WriteString("\n")
	}
	return b.String()
}

// sequencesEqual compares entry lists as ordered sequences.
func sequencesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// difference returns the members of a that are not in b, preserving a's
// order.
func difference(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, e := range b {
		inB[e] = struct{}{}
	}
	out := []string{}
	for _, e := range a {
		if _, ok := inB[e]; !ok {
			out = append(out, e)
		}
	}
	return out
}
