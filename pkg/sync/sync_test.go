package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpconfig/cpconfig/pkg/errors"
	"github.com/cpconfig/cpconfig/pkg/ignore"
	"github.com/cpconfig/cpconfig/pkg/testutil"
	"github.com/cpconfig/cpconfig/pkg/types"
)

const root = "/project"

func options(fs types.FS) Options {
	return Options{RootDir: root, FS: fs}
}

func boolPtr(b bool) *bool { return &b }

func TestSync_CreationAndIdempotence(t *testing.T) {
	fs := testutil.NewMemoryFS()
	files := map[string]FileDecl{
		"a.json": {Contents: "{}\n"},
		"b.json": {Contents: "[]\n"},
	}

	result, err := Sync(files, options(fs))
	require.NoError(t, err)

	assert.Equal(t, root, result.RootDir)
	require.Len(t, result.Files, 2)
	for _, file := range result.Files {
		assert.Equal(t, types.ActionCreated, file.Action)
		assert.True(t, file.Gitignored)
	}
	assert.Equal(t, "{}\n", testutil.ReadFileT(t, fs, "/project/a.json"))
	assert.Equal(t, "[]\n", testutil.ReadFileT(t, fs, "/project/b.json"))

	assert.True(t, result.Gitignore.Updated)
	assert.Equal(t, []string{"/a.json", "/b.json"}, result.Gitignore.Added)
	assert.Equal(t, ignore.Marker+"\n/a.json\n/b.json\n",
		testutil.ReadFileT(t, fs, "/project/.gitignore"))

	// Second identical call: everything unchanged, no gitignore write.
	result, err = Sync(files, options(fs))
	require.NoError(t, err)
	for _, file := range result.Files {
		assert.Equal(t, types.ActionUnchanged, file.Action)
	}
	assert.False(t, result.Gitignore.Updated)
	assert.Empty(t, result.Gitignore.Added)
	assert.Empty(t, result.Gitignore.Removed)
}

func TestSync_UpdateThenNoop(t *testing.T) {
	fs := testutil.NewMemoryFS()

	_, err := Sync(map[string]FileDecl{"a.json": {Contents: "v1\n"}}, options(fs))
	require.NoError(t, err)

	result, err := Sync(map[string]FileDecl{"a.json": {Contents: "v2\n"}}, options(fs))
	require.NoError(t, err)
	assert.Equal(t, types.ActionUpdated, result.Files[0].Action)
	assert.Equal(t, "v2\n", testutil.ReadFileT(t, fs, "/project/a.json"))

	result, err = Sync(map[string]FileDecl{"a.json": {Contents: "v2\n"}}, options(fs))
	require.NoError(t, err)
	assert.Equal(t, types.ActionUnchanged, result.Files[0].Action)
}

func TestSync_GitignoreConvergenceOnRemoval(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.WriteFileT(t, fs, "/project/.gitignore", "node_modules/\n")

	files := map[string]FileDecl{
		"a.json": {Contents: "{}\n"},
		"b.json": {Contents: "[]\n"},
	}
	_, err := Sync(files, options(fs))
	require.NoError(t, err)

	delete(files, "b.json")
	result, err := Sync(files, options(fs))
	require.NoError(t, err)

	assert.True(t, result.Gitignore.Updated)
	assert.Equal(t, []string{"/b.json"}, result.Gitignore.Removed)

	content := testutil.ReadFileT(t, fs, "/project/.gitignore")
	assert.Equal(t, "node_modules/\n\n"+ignore.Marker+"\n/a.json\n", content)
}

func TestSync_DuplicatePathAbortsBeforeAnyWrite(t *testing.T) {
	fs := testutil.NewMemoryFS()
	files := map[string]FileDecl{
		"./a.json": {Contents: "one\n"},
		"a.json":   {Contents: "two\n"},
	}

	_, err := Sync(files, options(fs))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicatePath))
	assert.False(t, testutil.ExistsT(t, fs, "/project/a.json"))
}

func TestSync_RootEscapeAbortsBeforeAnyWrite(t *testing.T) {
	fs := testutil.NewMemoryFS()
	files := map[string]FileDecl{
		"a.json":          {Contents: "{}\n"},
		"../outside.json": {Contents: "{}\n"},
	}

	_, err := Sync(files, options(fs))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPathEscape))
	assert.False(t, testutil.ExistsT(t, fs, "/project/a.json"))
	assert.False(t, testutil.ExistsT(t, fs, "/project/.gitignore"))
}

func TestSync_SentinelAbsentFromOwnContentsIsFatal(t *testing.T) {
	fs := testutil.NewMemoryFS()
	files := map[string]FileDecl{
		"a.conf": {Contents: "body\n", Sentinel: "__S__"},
	}

	_, err := Sync(files, options(fs))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSentinelMissing))
	assert.False(t, testutil.ExistsT(t, fs, "/project/a.conf"))
}

func TestSync_SentinelProtectionExcludesFileFromIgnoreBlock(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.WriteFileT(t, fs, "/project/a.conf", "unrelated=true\n")

	files := map[string]FileDecl{
		"a.conf": {Contents: "__S__\nbody\n", Sentinel: "__S__"},
		"b.json": {Contents: "{}\n"},
	}

	result, err := Sync(files, options(fs))
	require.NoError(t, err)

	byPath := make(map[string]types.FileResult)
	for _, file := range result.Files {
		byPath[file.Path] = file
	}

	protected := byPath["a.conf"]
	assert.Equal(t, types.ActionUnchanged, protected.Action)
	assert.True(t, protected.Skipped)
	assert.False(t, protected.Managed)
	assert.False(t, protected.Gitignored)
	assert.NotEmpty(t, protected.Warning)
	assert.Equal(t, "unrelated=true\n", testutil.ReadFileT(t, fs, "/project/a.conf"))

	content := testutil.ReadFileT(t, fs, "/project/.gitignore")
	assert.NotContains(t, content, "a.conf")
	assert.Contains(t, content, "/b.json")
}

func TestSync_SentinelPresentInExistingFileAllowsOverwrite(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.WriteFileT(t, fs, "/project/a.conf", "__S__\nold body\n")

	files := map[string]FileDecl{
		"a.conf": {Contents: "__S__\nbody\n", Sentinel: "__S__"},
	}

	result, err := Sync(files, options(fs))
	require.NoError(t, err)
	assert.Equal(t, types.ActionUpdated, result.Files[0].Action)
	assert.Equal(t, "__S__\nbody\n", testutil.ReadFileT(t, fs, "/project/a.conf"))
}

func TestSync_DryRunComputesSameOutcomesWithoutMutation(t *testing.T) {
	fs := testutil.NewMemoryFS()
	testutil.WriteFileT(t, fs, "/project/existing.json", "old\n")

	files := map[string]FileDecl{
		"existing.json": {Contents: "new\n"},
		"fresh.json":    {Contents: "{}\n"},
	}

	opts := options(fs)
	opts.DryRun = true
	result, err := Sync(files, opts)
	require.NoError(t, err)

	byPath := make(map[string]types.FileResult)
	for _, file := range result.Files {
		byPath[file.Path] = file
	}
	assert.Equal(t, types.ActionUpdated, byPath["existing.json"].Action)
	assert.Equal(t, types.ActionCreated, byPath["fresh.json"].Action)
	assert.True(t, result.Gitignore.Updated)

	assert.Equal(t, "old\n", testutil.ReadFileT(t, fs, "/project/existing.json"))
	assert.False(t, testutil.ExistsT(t, fs, "/project/fresh.json"))
	assert.False(t, testutil.ExistsT(t, fs, "/project/.gitignore"))
}

func TestSync_GitignoreOptOut(t *testing.T) {
	fs := testutil.NewMemoryFS()
	files := map[string]FileDecl{
		"tracked.json": {Contents: "{}\n"},
		"local.env":    {Contents: "SECRET=1\n", Gitignore: boolPtr(false)},
	}

	result, err := Sync(files, options(fs))
	require.NoError(t, err)

	content := testutil.ReadFileT(t, fs, "/project/.gitignore")
	assert.Contains(t, content, "/tracked.json")
	assert.NotContains(t, content, "local.env")

	for _, file := range result.Files {
		if file.Path == "local.env" {
			assert.False(t, file.Gitignored)
		}
	}
}

func TestSync_ContentsProviderInvokedOncePerInvocation(t *testing.T) {
	fs := testutil.NewMemoryFS()
	calls := 0
	files := map[string]FileDecl{
		"gen.txt": {ContentsFunc: func() (string, error) {
			calls++
			return "generated\n", nil
		}},
	}

	_, err := Sync(files, options(fs))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "generated\n", testutil.ReadFileT(t, fs, "/project/gen.txt"))

	_, err = Sync(files, options(fs))
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "provider runs fresh on every invocation")
}

func TestSync_BothContentSourcesIsInvalid(t *testing.T) {
	fs := testutil.NewMemoryFS()
	files := map[string]FileDecl{
		"a.json": {
			Contents:     "literal\n",
			ContentsFunc: func() (string, error) { return "provided\n", nil },
		},
	}

	_, err := Sync(files, options(fs))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrContentsInvalid))
}

func TestSync_CustomGitignorePath(t *testing.T) {
	fs := testutil.NewMemoryFS()
	opts := options(fs)
	opts.GitignorePath = "config/.ignore"

	result, err := Sync(map[string]FileDecl{"a.json": {Contents: "{}\n"}}, opts)
	require.NoError(t, err)
	assert.Equal(t, "/project/config/.ignore", result.Gitignore.Path)
	assert.Contains(t, testutil.ReadFileT(t, fs, "/project/config/.ignore"), "/a.json")
}

func TestSync_ResultsSortedByPath(t *testing.T) {
	fs := testutil.NewMemoryFS()
	files := map[string]FileDecl{
		"z.json": {Contents: "1\n"},
		"a.json": {Contents: "2\n"},
		"m.json": {Contents: "3\n"},
	}

	result, err := Sync(files, options(fs))
	require.NoError(t, err)
	require.Len(t, result.Files, 3)
	assert.Equal(t, "a.json", result.Files[0].Path)
	assert.Equal(t, "m.json", result.Files[1].Path)
	assert.Equal(t, "z.json", result.Files[2].Path)
}
