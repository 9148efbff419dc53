package catalog

import (
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/xmlconform/xmlconform/internal/model"
)

func parseSchemaCatalog(root *xmlquery.Node, path string) (*model.Catalog, error) {
	if root.Data != "testSuite" {
		return nil, loadErrorf("C003", path, "expected testSuite document element, found %q", root.Data)
	}
	cat := &model.Catalog{
		Name:         attr(root, "name"),
		Environments: make(map[string]model.Environment),
	}
	for _, ref := range descendants(root, "testSetRef") {
		href := attr(ref, "href")
		if href == "" {
			continue
		}
		cat.TestSets = append(cat.TestSets, model.TestSetRef{
			Name: setNameFromHref(href),
			File: href,
		})
	}
	return cat, nil
}

func setNameFromHref(href string) string {
	base := filepath.Base(filepath.FromSlash(href))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parseSchemaTestSet(root *xmlquery.Node, path string, ref model.TestSetRef) (*model.TestSet, error) {
	if root.Data != "testSet" {
		return nil, loadErrorf("C003", path, "expected testSet document element, found %q", root.Data)
	}
	dir := filepath.Dir(path)
	name := attr(root, "name")
	if name == "" {
		name = ref.Name
	}
	ts := &model.TestSet{
		Name:         name,
		Environments: make(map[string]model.Environment),
	}
	for _, group := range children(root, "testGroup") {
		ts.TestCases = append(ts.TestCases, parseTestGroup(group, dir)...)
	}
	return ts, nil
}

// parseTestGroup expands one testGroup into test cases: at most one
// schema test followed by that group's instance tests. Instance tests
// validate against the group's schema document.
func parseTestGroup(group *xmlquery.Node, dir string) []model.TestCase {
	groupName := attr(group, "name")
	var cases []model.TestCase
	var schemaFile string

	if st := firstChild(group, "schemaTest"); st != nil {
		doc := firstChild(st, "schemaDocument")
		if doc != nil {
			if href := attr(doc, "href"); href != "" {
				schemaFile = filepath.Join(dir, filepath.FromSlash(href))
			}
		}
		testName := attr(st, "name")
		if testName == "" {
			testName = "schema"
		}
		cases = append(cases, model.TestCase{
			Name:             groupName + "/" + testName,
			Kind:             model.KindSchemaValid,
			SchemaFile:       schemaFile,
			ExpectedValidity: expectedValidity(st),
			Result:           model.AllOf{},
		})
	}

	for _, it := range children(group, "instanceTest") {
		var instanceFile string
		if doc := firstChild(it, "instanceDocument"); doc != nil {
			if href := attr(doc, "href"); href != "" {
				instanceFile = filepath.Join(dir, filepath.FromSlash(href))
			}
		}
		testName := attr(it, "name")
		if testName == "" {
			testName = "instance"
		}
		cases = append(cases, model.TestCase{
			Name:             groupName + "/" + testName,
			Kind:             model.KindInstanceValid,
			SchemaFile:       schemaFile,
			InstanceFile:     instanceFile,
			ExpectedValidity: expectedValidity(it),
			Result:           model.AllOf{},
		})
	}
	return cases
}

func expectedValidity(test *xmlquery.Node) model.Validity {
	if exp := firstChild(test, "expected"); exp != nil {
		return model.ParseValidity(attr(exp, "validity"))
	}
	return model.ValidityIndeterminate
}
