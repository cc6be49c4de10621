package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/foomo/loadprobe/config"
)

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	cfgPath := fs.String("config", "loadprobe.yaml", "path of the config file to write")
	_ = fs.Parse(args)

	if _, errStat := os.Stat(*cfgPath); errStat == nil {
		fmt.Fprintf(os.Stderr, "warning: %s already exists and will be overwritten\n", *cfgPath)
	}
	if errWrite := config.WriteDefault(*cfgPath); errWrite != nil {
		return fmt.Errorf("could not write config: %w", errWrite)
	}
	fmt.Println("default configuration written to", *cfgPath)
	return nil
}
