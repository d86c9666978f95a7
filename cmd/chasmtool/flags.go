package main

import (
	"flag"
	"fmt"
	"os"
)

// modelFlags are the options shared by commands that decode a model.
type modelFlags struct {
	fs  *flag.FlagSet
	ani *string
}

func newModelFlags(name string) *modelFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &modelFlags{
		fs:  fs,
		ani: fs.String("ani", "", "Companion .ANI frame file for a static model"),
	}
}

// parse parses args and returns the model name, exiting with usage when it
// is missing.
func (m *modelFlags) parse(args []string) string {
	m.fs.Parse(args)
	if m.fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: chasmtool %s [options] <model>\n", m.fs.Name())
		m.fs.PrintDefaults()
		os.Exit(1)
	}
	return m.fs.Arg(0)
}
