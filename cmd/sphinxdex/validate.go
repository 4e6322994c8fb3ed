package main

import (
	"fmt"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/crawl"
)

// Run executes the validate command. Every problem of every source is
// printed; the command fails if any source is invalid or unreadable.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	var invalid int
	for _, source := range c.Sources {
		loaded, err := deps.Importer.Load(deps.Ctx, source)
		if err != nil {
			invalid++
			fmt.Fprintf(deps.Stdout, "%s: error: %s\n", source, sphinxdex.ErrorMessage(err))
			continue
		}

		problems := loaded.Index.Check()
		if len(problems) == 0 {
			stats := loaded.Index.Stats()
			fmt.Fprintf(deps.Stdout, "%s: ok (%d documents, %d terms, %d objects, %s)\n",
				source, stats.Documents, stats.Terms, stats.Objects, crawl.FormatBytes(len(loaded.Data)))
			continue
		}

		invalid++
		fmt.Fprintf(deps.Stdout, "%s: %d problems\n", source, len(problems))
		for _, p := range problems {
			fmt.Fprintf(deps.Stdout, "  %s\n", p)
		}
	}

	if invalid > 0 {
		return sphinxdex.Errorf(sphinxdex.EINVALID, "%d of %d indexes invalid", invalid, len(c.Sources))
	}
	return nil
}
