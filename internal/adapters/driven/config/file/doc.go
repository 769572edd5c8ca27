// Package file provides file-based configuration adapters: user-editable
// prompt files with embedded defaults, and runtime settings merged from
// the environment and an optional TOML file.
package file
