//go:build cgo

package pysrc

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"layercheck/internal/errors"
)

// Parser extracts a Module from Python source via tree-sitter.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a Python parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// ParseSource parses one file's bytes. relPath is the path relative to the
// source root; it determines the module FQN.
func (p *Parser) ParseSource(ctx context.Context, relPath string, source []byte) (*Module, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.Wrap(errors.CollectFailed, "parsing "+relPath, err)
	}
	root := tree.RootNode()

	m := &Module{FQN: ModuleFQN(relPath), Path: relPath}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		p.topLevel(root.NamedChild(i), source, m, nil)
	}
	return m, nil
}

// topLevel dispatches one statement at module scope.
func (p *Parser) topLevel(node *sitter.Node, source []byte, m *Module, decorators []Call) {
	switch node.Type() {
	case "import_statement", "import_from_statement":
		m.Imports = append(m.Imports, parseImport(node, source)...)
	case "function_definition":
		fn := p.parseFunction(node, source, m.FQN, decorators)
		m.Functions = append(m.Functions, fn)
	case "class_definition":
		cls := p.parseClass(node, source, m.FQN)
		m.Classes = append(m.Classes, cls)
	case "decorated_definition":
		var decs []Call
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "decorator" {
				decs = append(decs, Call{
					Target: strings.TrimPrefix(child.Content(source), "@"),
					Line:   int(child.StartPoint().Row) + 1,
				})
				continue
			}
			p.topLevel(child, source, m, decs)
		}
	}
}

func (p *Parser) parseClass(node *sitter.Node, source []byte, moduleFQN string) Class {
	name := node.ChildByFieldName("name").Content(source)
	cls := Class{Name: name, FQN: join(moduleFQN, name)}

	if args := node.ChildByFieldName("superclasses"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			base := args.NamedChild(i)
			switch base.Type() {
			case "identifier", "attribute":
				cls.Bases = append(cls.Bases, base.Content(source))
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(i)
			switch child.Type() {
			case "function_definition":
				cls.Methods = append(cls.Methods, p.parseFunction(child, source, cls.FQN, nil))
			case "decorated_definition":
				var decs []Call
				for j := 0; j < int(child.NamedChildCount()); j++ {
					inner := child.NamedChild(j)
					if inner.Type() == "decorator" {
						decs = append(decs, Call{
							Target: strings.TrimPrefix(inner.Content(source), "@"),
							Line:   int(inner.StartPoint().Row) + 1,
						})
					} else if inner.Type() == "function_definition" {
						cls.Methods = append(cls.Methods, p.parseFunction(inner, source, cls.FQN, decs))
					}
				}
			}
		}
	}
	return cls
}

func (p *Parser) parseFunction(node *sitter.Node, source []byte, ownerFQN string, decorators []Call) Function {
	name := node.ChildByFieldName("name").Content(source)
	fn := Function{
		Name:       name,
		FQN:        join(ownerFQN, name),
		Line:       int(node.StartPoint().Row) + 1,
		Decorators: decorators,
	}
	if body := node.ChildByFieldName("body"); body != nil {
		collectCalls(body, source, &fn.Calls)
	}
	return fn
}

// collectCalls gathers every call expression in a subtree. Calls inside
// nested defs and lambdas are attributed to the enclosing named function.
func collectCalls(node *sitter.Node, source []byte, out *[]Call) {
	if node.Type() == "call" {
		if fn := node.ChildByFieldName("function"); fn != nil {
			// A bare super() only matters as part of super().method().
			if target := fn.Content(source); target != "super" {
				*out = append(*out, Call{
					Target: target,
					Line:   int(node.StartPoint().Row) + 1,
				})
			}
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectCalls(node.NamedChild(i), source, out)
	}
}

// parseImport flattens one import statement into Import records.
func parseImport(node *sitter.Node, source []byte) []Import {
	line := int(node.StartPoint().Row) + 1

	if node.Type() == "import_statement" {
		// import a.b, import a.b as c
		var out []Import
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "dotted_name":
				out = append(out, Import{Module: child.Content(source), Line: line})
			case "aliased_import":
				imp := Import{Line: line}
				if name := child.ChildByFieldName("name"); name != nil {
					imp.Module = name.Content(source)
				}
				if alias := child.ChildByFieldName("alias"); alias != nil {
					imp.Alias = alias.Content(source)
				}
				out = append(out, imp)
			}
		}
		return out
	}

	// from a.b import c as d, e
	module, level := "", 0
	if mod := node.ChildByFieldName("module_name"); mod != nil {
		switch mod.Type() {
		case "dotted_name":
			module = mod.Content(source)
		case "relative_import":
			text := mod.Content(source)
			level = len(text) - len(strings.TrimLeft(text, "."))
			module = strings.TrimLeft(text, ".")
		}
	}

	var out []Import
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Equal(node.ChildByFieldName("module_name")) {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			out = append(out, Import{Module: module, Name: child.Content(source), Level: level, Line: line})
		case "aliased_import":
			imp := Import{Module: module, Level: level, Line: line}
			if name := child.ChildByFieldName("name"); name != nil {
				imp.Name = name.Content(source)
			}
			if alias := child.ChildByFieldName("alias"); alias != nil {
				imp.Alias = alias.Content(source)
			}
			out = append(out, imp)
		case "wildcard_import":
			out = append(out, Import{Module: module, Level: level, Line: line})
		}
	}
	if len(out) == 0 && (module != "" || level > 0) {
		out = append(out, Import{Module: module, Level: level, Line: line})
	}
	return out
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
