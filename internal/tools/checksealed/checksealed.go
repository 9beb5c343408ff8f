// Command checksealed flags "any"/"interface{}" leaking outside the
// allowlisted untyped boundaries (pkg/pvalue, internal/ingest,
// internal/archive).
// Ported in spirit from the teacher's scripts/validate_any_usage, but
// loads and type-checks packages via golang.org/x/tools/go/packages
// instead of parsing each file in isolation, so it can tell a generic
// type parameter's "any" constraint apart from a true interface{} value.
package main

import (
	"fmt"
	"go/ast"
	"go/types"
	"os"
	"strings"

	"golang.org/x/tools/go/packages"
)

// allowedPrefixes may use any/interface{} freely: the tagged-union package
// itself, its ingestion boundary (raw, not-yet-wrapped driver values), and
// the snapshot archiver (arbitrary values serialized to JSON). Test
// packages (import paths ending in ".test") are allowed by isAllowed too.
var allowedPrefixes = []string{
	"gridcore/pkg/pvalue",
	"gridcore/internal/ingest",
	"gridcore/internal/archive",
}

// Violation is one disallowed any/interface{} occurrence.
type Violation struct {
	Position string
	Symbol   string
}

func main() {
	violations, err := Run("./...")
	if err != nil {
		fmt.Fprintln(os.Stderr, "checksealed:", err)
		os.Exit(1)
	}
	if len(violations) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "found %d disallowed any usages:\n\n", len(violations))
	for _, v := range violations {
		fmt.Fprintf(os.Stderr, "%s: %s\n", v.Position, v.Symbol)
	}
	os.Exit(1)
}

// Run loads pattern (e.g. "./...") and reports every struct field, function
// parameter or result, exported or not, whose type is itself an empty
// interface ("any"/"interface{}"), outside allowedPrefixes. Types that only
// contain one, such as map[string]any, are not reported.
func Run(pattern string) ([]Violation, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedSyntax | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedFiles,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("package load reported errors")
	}

	var violations []Violation
	for _, pkg := range pkgs {
		if isAllowed(pkg.PkgPath) {
			continue
		}
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				field, ok := n.(*ast.Field)
				if !ok {
					return true
				}
				if len(field.Names) > 0 {
					if tn, ok := pkg.TypesInfo.Defs[field.Names[0]].(*types.TypeName); ok {
						if _, isTypeParam := tn.Type().(*types.TypeParam); isTypeParam {
							return true // a type parameter's constraint, not a value
						}
					}
				}
				tv, ok := pkg.TypesInfo.Types[field.Type]
				if !ok || tv.Type == nil {
					return true
				}
				if !isEmptyInterface(tv.Type) {
					return true
				}
				name := "<anonymous field>"
				if len(field.Names) > 0 {
					name = field.Names[0].Name
				}
				violations = append(violations, Violation{
					Position: pkg.Fset.Position(field.Pos()).String(),
					Symbol:   fmt.Sprintf("%s.%s", pkg.PkgPath, name),
				})
				return true
			})
		}
	}
	return violations, nil
}

func isAllowed(pkgPath string) bool {
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(pkgPath, prefix) {
			return true
		}
	}
	return strings.HasSuffix(pkgPath, ".test")
}

func isEmptyInterface(t types.Type) bool {
	iface, ok := t.Underlying().(*types.Interface)
	return ok && iface.NumMethods() == 0
}
