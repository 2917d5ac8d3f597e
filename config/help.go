package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
SafeBike web client

Usage:
  web [--mode=web-client] [--config-path=config.yaml]
  web --help

Options:
  --mode         Application mode (web-client)
  --config-path  Path to the YAML configuration file
  --help         Show this message

Every YAML key can be overridden by an environment variable built from its
path, e.g. backend.base_url -> BACKEND_BASE_URL. A .env file in the working
directory is loaded first.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
