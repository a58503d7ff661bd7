// deckcheck-lint checks deckcheck code for its error-wrapping, regex and AI-call conventions.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/deckcheck/tools/deckcheck-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
