package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/sphinxdex"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	project, err := findProject(deps, c.Name)
	if err != nil {
		return err
	}

	if c.Term != "" {
		return c.runTerm(deps, project)
	}

	idx, err := findIndex(deps, project)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Documents for %s (%d total):\n\n", c.Name, len(idx.DocNames))
	for i := range idx.DocNames {
		doc, _ := idx.Doc(i)
		printDoc(deps, project, i+1, doc)
	}

	return nil
}

// runTerm lists the documents whose terms or title terms contain the stem of
// c.Term, without loading the whole index.
func (c *DocsCmd) runTerm(deps *Dependencies, project *sphinxdex.Project) error {
	term := strings.ToLower(strings.TrimSpace(c.Term))
	if deps.Stemmer != nil {
		term = deps.Stemmer.Stem(term)
	}

	docs, err := deps.Indexes.FindTermDocs(deps.Ctx, project.ID, term)
	if sphinxdex.ErrorCode(err) == sphinxdex.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: project %q has no index. Run 'sphinxdex update %s' to import it.\n", project.Name, project.Name)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sphinxdex.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintf(deps.Stdout, "No documents of %s contain %q\n", c.Name, c.Term)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Documents for %s containing %q (%d total):\n\n", c.Name, term, len(docs))
	for i, doc := range docs {
		printDoc(deps, project, i+1, doc)
	}
	return nil
}

func printDoc(deps *Dependencies, project *sphinxdex.Project, n int, doc sphinxdex.DocRef) {
	title := doc.Title
	if title == "" {
		title = doc.DocName
	}
	fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s\n", n, title, project.PageURL(doc.DocName, ""))
}
