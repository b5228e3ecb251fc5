package engine

import "strings"

// Config mirrors ria_config_t (spec §6): the handful of host-supplied
// knobs an engine instance needs at init time. It is built from CLI
// flags in cmd/ria rather than from a config file format, since the
// original had none either (see SPEC_FULL.md's Ambient Stack section).
type Config struct {
	// TempDir is the directory the default cookie jar keeps its per-site
	// files in; a trailing separator is normalised away (spec §6
	// "init(tempdir)"). Dump files go to the path the script passes.
	TempDir string
	// WorkDir is kept on the config but no built-in reads it:
	// load_from_file/save_to_file/extract_string_from_file and
	// create_parser_for_file use their paths as given, so relative paths
	// resolve against the process's current working directory.
	WorkDir string
}

func (c Config) normalised() Config {
	c.TempDir = strings.TrimRight(c.TempDir, "/")
	c.WorkDir = strings.TrimRight(c.WorkDir, "/")
	return c
}
