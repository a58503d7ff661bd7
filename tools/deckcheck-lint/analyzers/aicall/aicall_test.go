package aicall_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/ersonp/deckcheck/tools/deckcheck-lint/analyzers/aicall"
)

func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, aicall.Analyzer, "a")
}
