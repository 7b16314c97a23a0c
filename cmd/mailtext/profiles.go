package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/mailtext"
)

// Run executes the profiles command.
func (c *ProfilesCmd) Run(deps *Dependencies) error {
	for _, name := range deps.Profiles.Names() {
		p := deps.Profiles[name]
		if p.Fallback {
			fmt.Fprintf(deps.Stdout, "%s (main content fallback)\n", name)
		} else {
			fmt.Fprintln(deps.Stdout, name)
		}
		for _, region := range mailtext.Regions {
			selectors, ok := p.Regions[region]
			if !ok {
				continue
			}
			fmt.Fprintf(deps.Stdout, "  %s: %s\n", region, strings.Join(selectors, ", "))
		}
	}
	return nil
}
