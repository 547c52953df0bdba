package testbench

import _ "embed"

// Version is the release of the library and the testbench CLI.
//
//go:embed VERSION
var Version string
