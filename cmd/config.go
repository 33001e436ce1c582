package cmd

import (
	"flag"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/dayplanner/internal/config"
)

// configCommand prints the effective configuration and where each value came
// from, or an example file with -example.
func configCommand(cws *config.ConfigWithSources, args []string, std streams) error {
	fs := flag.NewFlagSet("dayplanner config", flag.ContinueOnError)
	fs.SetOutput(std.err)
	example := fs.Bool("example", false, "Print an example dayplanner.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(std.out, config.ExampleConfig())
		return nil
	}

	if len(cws.Files) == 0 {
		fmt.Fprintln(std.out, "# No config file found; using defaults")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(std.out, "# Loaded %s\n", f)
	}
	fmt.Fprintln(std.out)

	if err := toml.NewEncoder(std.out).Encode(cws.Config); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	keys := make([]string, 0, len(cws.Sources))
	for k := range cws.Sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(std.out)
	fmt.Fprintln(std.out, "# Sources")
	for _, k := range keys {
		fmt.Fprintf(std.out, "# %-22s %s\n", k, cws.Sources[k])
	}
	return nil
}
