// Package discover finds WAMP contract interfaces in Go packages.
//
// A contract is an interface type whose doc comment carries the
// //wamp:contract directive:
//
//	//wamp:contract
//	type ArgumentsService interface {
//	    //wamp:procedure com.arguments.ping
//	    Ping(ctx context.Context) error
//	}
package discover

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/broady/typedwamp/internal/directive"
)

// LoadMode is the packages.Load mode contract discovery and extraction need.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// Interface is a discovered contract interface.
type Interface struct {
	Name string             // type name
	Obj  *types.TypeName    // type-checked object
	Spec *ast.TypeSpec      // declaration
	Type *ast.InterfaceType // method list in declaration order
	Doc  *ast.CommentGroup  // doc comment, including the directive
	Pos  token.Position     // source location
}

// Result contains the contracts found in one package.
type Result struct {
	Contracts   []Interface
	Package     *packages.Package
	PackagePath string
}

// Load loads packages for contract extraction.
//
// The patterns follow go command semantics:
//   - "." for current directory
//   - "./..." for current directory and subdirectories
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
//
// If dir is empty, the current directory is used.
func Load(ctx context.Context, dir string, patterns ...string) ([]*packages.Package, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %s", strings.Join(patterns, " "))
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors[0])
		}
	}
	return pkgs, nil
}

// Find loads the packages matching the patterns and returns the contracts
// of each, in package load order.
func Find(ctx context.Context, dir string, patterns ...string) ([]*Result, error) {
	pkgs, err := Load(ctx, dir, patterns...)
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, pkg := range pkgs {
		found, err := Contracts(pkg)
		if err != nil {
			return nil, err
		}
		results = append(results, &Result{
			Contracts:   found,
			Package:     pkg,
			PackagePath: pkg.PkgPath,
		})
	}
	return results, nil
}

// Contracts scans a loaded package for //wamp:contract interfaces.
//
// Returns an error if:
//   - //wamp:contract annotates something other than an interface type
//   - a contract interface has type parameters
//   - a directive is not attached to a contract or one of its methods
func Contracts(pkg *packages.Package) ([]Interface, error) {
	var found []Interface
	for _, f := range pkg.Syntax {
		consumed := make(map[*ast.Comment]bool)

		for _, decl := range f.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				if !directive.IsContract(doc) {
					continue
				}

				pos := pkg.Fset.Position(ts.Pos())
				iface, ok := ts.Type.(*ast.InterfaceType)
				if !ok {
					return nil, fmt.Errorf("%s: //wamp:contract must annotate an interface type, %s is not one", pos, ts.Name.Name)
				}
				if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
					return nil, fmt.Errorf("%s: contract %s cannot have type parameters", pos, ts.Name.Name)
				}

				obj, _ := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if obj == nil {
					return nil, fmt.Errorf("%s: no type information for %s", pos, ts.Name.Name)
				}

				markContract(doc, consumed)
				for _, field := range iface.Methods.List {
					markAll(field.Doc, consumed)
				}

				found = append(found, Interface{
					Name: ts.Name.Name,
					Obj:  obj,
					Spec: ts,
					Type: iface,
					Doc:  doc,
					Pos:  pos,
				})
			}
		}

		if err := checkStray(pkg.Fset, f, consumed); err != nil {
			return nil, err
		}
	}
	return found, nil
}

func markContract(doc *ast.CommentGroup, consumed map[*ast.Comment]bool) {
	for _, c := range doc.List {
		if directive.IsContract(&ast.CommentGroup{List: []*ast.Comment{c}}) {
			consumed[c] = true
		}
	}
}

func markAll(doc *ast.CommentGroup, consumed map[*ast.Comment]bool) {
	if doc == nil {
		return
	}
	for _, c := range doc.List {
		if directive.IsDirective(c.Text) {
			consumed[c] = true
		}
	}
}

// checkStray reports the first directive that no contract claimed.
func checkStray(fset *token.FileSet, f *ast.File, consumed map[*ast.Comment]bool) error {
	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if !directive.IsDirective(c.Text) || consumed[c] {
				continue
			}
			verb, _, _ := strings.Cut(strings.TrimPrefix(c.Text, directive.Prefix), " ")
			pos := fset.Position(c.Pos())
			if verb == string(directive.KindContract) {
				return fmt.Errorf("%s: //wamp:contract must annotate an interface type", pos)
			}
			return fmt.Errorf("%s: //wamp:%s directive must annotate a method of a //wamp:contract interface", pos, verb)
		}
	}
	return nil
}

// Select filters contracts by name, preserving discovery order.
//
// If names is empty, all contracts are returned. Returns an error if no
// contract was found or if a requested name does not exist.
func Select(found []Interface, names []string) ([]Interface, error) {
	if len(found) == 0 {
		return nil, fmt.Errorf("no contract found\n\nAnnotate an interface with //wamp:contract:\n\n    //wamp:contract\n    type Service interface {\n        //wamp:procedure com.example.ping\n        Ping(ctx context.Context) error\n    }")
	}
	if len(names) == 0 {
		return found, nil
	}

	byName := make(map[string]bool, len(found))
	for _, f := range found {
		byName[f.Name] = true
	}
	for _, n := range names {
		if !byName[n] {
			var available []string
			for _, f := range found {
				available = append(available, f.Name)
			}
			return nil, fmt.Errorf("contract %q not found (available: %s)", n, strings.Join(available, ", "))
		}
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Interface
	for _, f := range found {
		if want[f.Name] {
			out = append(out, f)
		}
	}
	return out, nil
}
