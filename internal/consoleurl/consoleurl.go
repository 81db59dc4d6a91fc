// Package consoleurl builds deep links into the companion web console,
// governance site, and block explorer for use on news items.
package consoleurl

import "fmt"

// Builder constructs links from configured root URLs.
type Builder struct {
	consoleRoot    string
	governanceRoot string
	explorerRoot   string
}

// New creates a Builder. Roots are given without a trailing slash.
func New(consoleRoot, governanceRoot, explorerRoot string) *Builder {
	return &Builder{
		consoleRoot:    consoleRoot,
		governanceRoot: governanceRoot,
		explorerRoot:   explorerRoot,
	}
}

// Market links to a market's page on the console.
func (b *Builder) Market(id string) string {
	return fmt.Sprintf("%s/markets/%s", b.consoleRoot, id)
}

// Asset links to the explorer's asset listing. The explorer cannot link to
// a specific asset, so the id is accepted for future use and ignored.
func (b *Builder) Asset(id string) string {
	return b.explorerRoot + "/assets"
}

// Proposal links to a governance proposal's page.
func (b *Builder) Proposal(id string) string {
	return fmt.Sprintf("%s/governance/%s", b.governanceRoot, id)
}
