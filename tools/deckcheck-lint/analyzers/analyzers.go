// Package analyzers provides all custom static analyzers for deckcheck.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/deckcheck/tools/deckcheck-lint/analyzers/aicall"
	"github.com/ersonp/deckcheck/tools/deckcheck-lint/analyzers/errwrap"
	"github.com/ersonp/deckcheck/tools/deckcheck-lint/analyzers/regexcompile"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		aicall.Analyzer,
		errwrap.Analyzer,
		regexcompile.Analyzer,
	}
}
