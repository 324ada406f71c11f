package main

import _ "embed"

// embeddedConfig holds the YAML configuration embedded at build time.
// The config.yaml file ships the stock simulation profile; deployments
// override it with an external file or environment variables.
//
//go:embed config.yaml
var embeddedConfig []byte
