package catalog

import (
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/xmlconform/xmlconform/internal/model"
)

func parseEnvironment(n *xmlquery.Node, dir string) model.Environment {
	env := model.Environment{
		Name: attr(n, "name"),
	}
	for _, src := range children(n, "source") {
		source := model.Source{
			Role: attr(src, "role"),
			URI:  attr(src, "uri"),
		}
		if source.Role == "" {
			source.Role = "."
		}
		if file := attr(src, "file"); file != "" {
			source.File = filepath.Join(dir, filepath.FromSlash(file))
		} else if content := strings.TrimSpace(innerXML(src)); content != "" {
			source.Content = content
		}
		env.Sources = append(env.Sources, source)
	}
	for _, ns := range children(n, "namespace") {
		uri := attr(ns, "uri")
		if uri == "" {
			continue
		}
		if env.Namespaces == nil {
			env.Namespaces = make(map[string]string)
		}
		env.Namespaces[attr(ns, "prefix")] = uri
	}
	for _, p := range children(n, "param") {
		env.Params = append(env.Params, model.Param{
			Name:     attr(p, "name"),
			Select:   attr(p, "select"),
			Declared: attr(p, "declared") == "true",
		})
	}
	for _, s := range children(n, "schema") {
		ref := model.SchemaRef{URI: attr(s, "uri")}
		if file := attr(s, "file"); file != "" {
			ref.File = filepath.Join(dir, filepath.FromSlash(file))
		}
		env.Schemas = append(env.Schemas, ref)
	}
	if base := firstChild(n, "static-base-uri"); base != nil {
		env.BaseURI = attr(base, "uri")
	}
	return env
}

// parseDependency reads a dependency element. The satisfied attribute
// defaults to true when absent.
func parseDependency(n *xmlquery.Node) model.Dependency {
	satisfied := true
	if hasAttr(n, "satisfied") {
		satisfied = attr(n, "satisfied") == "true"
	}
	return model.Dependency{
		Type:      attr(n, "type"),
		Value:     attr(n, "value"),
		Satisfied: satisfied,
	}
}
