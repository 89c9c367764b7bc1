// Package configs embeds the commented configuration template written by
// `shelfsearch config init`.
//
// Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults (internal/config NewConfig())
//  2. User config ($XDG_CONFIG_HOME/shelfsearch/config.yaml)
//  3. File passed with --config
//  4. Environment variables (SHELFSEARCH_*)
package configs

import _ "embed"

// ConfigTemplate is the user configuration template.
//
//go:embed config.example.yaml
var ConfigTemplate string
