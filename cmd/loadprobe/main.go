package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/foomo/loadprobe/config"
)

const usage = `usage: loadprobe <command> [options]

commands:
  init   write a default config file
  run    probe a target and print the load distribution
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit(os.Args[2:])
	case "run":
		err = runProbe(os.Args[2:], os.Stdin, os.Stdout)
	case "help", "-h", "-help", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			fmt.Fprintln(os.Stderr, "config error:", err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
