package catalog

import (
	"path/filepath"

	"github.com/antchfx/xmlquery"

	"github.com/xmlconform/xmlconform/internal/model"
)

func parseQueryCatalog(root *xmlquery.Node, path string) (*model.Catalog, error) {
	if root.Data != "catalog" {
		return nil, loadErrorf("C003", path, "expected catalog document element, found %q", root.Data)
	}
	dir := filepath.Dir(path)
	cat := &model.Catalog{
		Name:         attr(root, "name"),
		Environments: make(map[string]model.Environment),
	}
	for _, ts := range children(root, "test-set") {
		cat.TestSets = append(cat.TestSets, model.TestSetRef{
			Name: attr(ts, "name"),
			File: attr(ts, "file"),
		})
	}
	for _, envNode := range children(root, "environment") {
		env := parseEnvironment(envNode, dir)
		if env.Name != "" {
			cat.Environments[env.Name] = env
		}
	}
	return cat, nil
}

func parseQueryTestSet(root *xmlquery.Node, path string, dialect Dialect) (*model.TestSet, error) {
	if root.Data != "test-set" {
		return nil, loadErrorf("C003", path, "expected test-set document element, found %q", root.Data)
	}
	dir := filepath.Dir(path)
	ts := &model.TestSet{
		Name:         attr(root, "name"),
		Description:  text(firstChild(root, "description")),
		Environments: make(map[string]model.Environment),
	}
	for _, envNode := range children(root, "environment") {
		env := parseEnvironment(envNode, dir)
		if env.Name != "" {
			ts.Environments[env.Name] = env
		}
	}
	for _, depNode := range children(root, "dependency") {
		ts.Dependencies = append(ts.Dependencies, parseDependency(depNode))
	}
	for _, caseNode := range children(root, "test-case") {
		ts.TestCases = append(ts.TestCases, parseTestCase(caseNode, dir, dialect))
	}
	return ts, nil
}

func parseTestCase(n *xmlquery.Node, dir string, dialect Dialect) model.TestCase {
	tc := model.TestCase{
		Name:        attr(n, "name"),
		Description: text(firstChild(n, "description")),
		Kind:        model.KindQuery,
	}
	if envNode := firstChild(n, "environment"); envNode != nil {
		if ref := attr(envNode, "ref"); ref != "" {
			tc.Environment = &model.EnvironmentRef{Name: ref}
		} else {
			env := parseEnvironment(envNode, dir)
			tc.Environment = &model.EnvironmentRef{Inline: &env}
		}
	}
	for _, depNode := range children(n, "dependency") {
		tc.Dependencies = append(tc.Dependencies, parseDependency(depNode))
	}

	if testNode := firstChild(n, "test"); testNode != nil {
		if dialect == DialectTransform {
			tc.Kind = model.KindTransform
			if sheet := firstChild(testNode, "stylesheet"); sheet != nil {
				if file := attr(sheet, "file"); file != "" {
					tc.StylesheetFile = filepath.Join(dir, filepath.FromSlash(file))
				}
			}
			if tmpl := firstChild(testNode, "initial-template"); tmpl != nil {
				tc.InitialTemplate = attr(tmpl, "name")
			}
			if mode := firstChild(testNode, "initial-mode"); mode != nil {
				tc.InitialMode = attr(mode, "name")
			}
		} else {
			tc.Test = text(testNode)
		}
	}

	tc.Result = parseResult(firstChild(n, "result"), dir)
	return tc
}
