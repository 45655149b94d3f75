// Package config is the boundary layer that discovers and parses the
// cpconfig manifest. It turns the on-disk declaration into the file map
// consumed by pkg/sync; the core never reads manifests itself.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/cpconfig/cpconfig/pkg/errors"
	"github.com/cpconfig/cpconfig/pkg/logging"
	"github.com/cpconfig/cpconfig/pkg/paths"
	"github.com/cpconfig/cpconfig/pkg/sync"
)

// manifestNames are searched in order inside the root directory.
var manifestNames = []string{
	".cpconfig.toml",
	"cpconfig.toml",
	".cpconfig.yaml",
	"cpconfig.yaml",
}

// Manifest is the parsed declaration file.
type Manifest struct {
	// Encoding is the IANA charset for all file content, empty for the
	// utf-8 default.
	Encoding string
	// GitignorePath overrides the ignore file location, root-relative.
	GitignorePath string
	// Files maps declared relative paths to their declarations.
	Files map[string]sync.FileDecl
}

// fileEntry mirrors one manifest [files."..."] table.
type fileEntry struct {
	Contents     string `koanf:"contents"`
	ContentsFile string `koanf:"contentsFile"`
	Gitignore    *bool  `koanf:"gitignore"`
	Mode         uint32 `koanf:"mode"`
	Sentinel     string `koanf:"sentinel"`
}

// rawManifest is the koanf unmarshal target.
type rawManifest struct {
	Encoding      string               `koanf:"encoding"`
	GitignorePath string               `koanf:"gitignorePath"`
	Files         map[string]fileEntry `koanf:"files"`
}

// Discover locates the manifest. An explicit path wins and must exist;
// otherwise the well-known names are tried in order inside rootDir.
func Discover(rootDir, explicit string) (string, error) {
	if explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(rootDir, explicit)
		}
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", explicit)
		}
		return explicit, nil
	}

	for _, name := range manifestNames {
		candidate := filepath.Join(rootDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.Newf(errors.ErrConfigLoad,
		"no manifest found in %s (tried %s)", rootDir, strings.Join(manifestNames, ", "))
}

// Load parses the manifest at path. Declared relative paths stay untouched
// here; pkg/sync normalizes and validates them. A contentsFile reference
// becomes a content provider that reads the referenced file (relative to
// rootDir) when the sync invocation resolves its targets.
func Load(path, rootDir string) (*Manifest, error) {
	logger := logging.GetLogger("config")

	// Declared paths contain dots and slashes, so the key delimiter must
	// be something that cannot occur in them.
	k := koanf.NewWithConf(koanf.Conf{Delim: "::"})
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path)
	}

	var raw rawManifest
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid manifest structure in %s", path)
	}

	if len(raw.Files) == 0 {
		return nil, errors.Newf(errors.ErrConfigParse, "manifest %s declares no files", path)
	}

	manifest := &Manifest{
		Encoding:      raw.Encoding,
		GitignorePath: raw.GitignorePath,
		Files:         make(map[string]sync.FileDecl, len(raw.Files)),
	}

	for rel, entry := range raw.Files {
		decl, err := toDecl(rel, entry, rootDir)
		if err != nil {
			return nil, err
		}
		manifest.Files[rel] = decl
	}

	logger.Debug().Str("path", path).Int("files", len(manifest.Files)).Msg("Manifest loaded")
	return manifest, nil
}

// toDecl converts a manifest entry into a sync declaration.
func toDecl(rel string, entry fileEntry, rootDir string) (sync.FileDecl, error) {
	if entry.Contents != "" && entry.ContentsFile != "" {
		return sync.FileDecl{}, errors.Newf(errors.ErrConfigParse,
			"%q declares both contents and contentsFile", rel)
	}

	decl := sync.FileDecl{
		Contents:  entry.Contents,
		Gitignore: entry.Gitignore,
		Mode:      fs.FileMode(entry.Mode),
		Sentinel:  entry.Sentinel,
	}

	if entry.ContentsFile != "" {
		source, err := paths.Resolve(rootDir, entry.ContentsFile)
		if err != nil {
			return sync.FileDecl{}, err
		}
		decl.Contents = ""
		decl.ContentsFunc = func() (string, error) {
			data, err := os.ReadFile(source)
			if err != nil {
				return "", err
			}
			return string(data), nil
		}
	}

	return decl, nil
}

// parserFor picks the koanf parser from the file extension, defaulting to
// TOML.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
