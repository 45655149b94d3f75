package main

// Message constants
const (
	MsgRootShort = "Synchronize declared project configuration files"
	MsgRootLong  = `cpconfig reconciles a declared set of project configuration files against
your working directory and keeps a single managed block of entries inside
your .gitignore, without touching anything else in it.

Files you have hand-edited are protected: a target declared with a sentinel
is only overwritten when the file on disk still carries that sentinel.`

	MsgRootExample = `  # Synchronize using the manifest in the current directory
  cpconfig

  # Preview what would change
  cpconfig --dry-run

  # Synchronize another project and emit the report as JSON
  cpconfig --root ~/src/other-project --json`

	MsgSyncShort = "Reconcile declared files and the managed ignore block"
	MsgSyncLong  = `Discovers the manifest (.cpconfig.toml, cpconfig.toml, .cpconfig.yaml or
cpconfig.yaml), reconciles every declared file, then rewrites the managed
block of the ignore file so it lists exactly the tracked paths.`

	MsgVersionShort = "Print version information"
)
