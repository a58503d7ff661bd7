// Package aicall detects AI backend and history store calls inside loops.
package aicall

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer detects per-item AI or history calls that should take the whole deck at once.
var Analyzer = &analysis.Analyzer{
	Name:     "aicall",
	Doc:      "detects AI backend and run history calls inside loops",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// batchedMethods take every slide (or every finding) in one call.
var batchedMethods = map[string]bool{
	// ports.Detector
	"Detect": true,
	// go-openai and genai clients
	"CreateChatCompletion": true,
	"GenerateContent":      true,
	// ports.RunHistory
	"SaveRun": true,
}

func run(pass *analysis.Pass) (any, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			// A closure defined in the loop is not necessarily called per iteration.
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if batchedMethods[sel.Sel.Name] {
				pass.Reportf(call.Pos(),
					"%s called inside loop - send every slide in a single call", sel.Sel.Name)
			}
			return true
		})
	})

	return nil, nil
}
