package genconfig

// Message constants
const (
	MsgShort = "Write a starter manifest"
	MsgLong  = `Writes a commented starter .cpconfig.toml into the given directory (or the
current directory). Refuses to overwrite an existing manifest unless --force
is given.`

	MsgExample = `  # Create .cpconfig.toml in the current directory
  cpconfig gen-config

  # Create it in another project
  cpconfig gen-config ~/src/other-project`
)
