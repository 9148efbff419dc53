package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe_Leaves(t *testing.T) {
	assert.Equal(t, `eq("5")`, Describe(AssertEq{Value: "5"}))
	assert.Equal(t, "count(3)", Describe(AssertCount{Count: 3}))
	assert.Equal(t, "empty", Describe(AssertEmpty{}))
	assert.Equal(t, "error(XPST0003)", Describe(AssertError{Code: "XPST0003"}))
	assert.Equal(t, "type(xs:integer)", Describe(AssertType{TypeName: "xs:integer"}))
}

func TestDescribe_Nested(t *testing.T) {
	tree := AllOf{Assertions: []Assertion{
		AssertCount{Count: 2},
		AnyOf{Assertions: []Assertion{
			AssertTrue{},
			Not{Assertion: AssertEmpty{}},
		}},
	}}

	assert.Equal(t, "all-of(count(2), any-of(true, not(empty)))", Describe(tree))
}

func TestDescribe_FileVariants(t *testing.T) {
	assert.Equal(t, "xml(file=expected.xml)", Describe(AssertXML{File: "expected.xml"}))
	assert.Equal(t, `xml("<a/>")`, Describe(AssertXML{XML: "<a/>"}))
	assert.Equal(t, `serialization-matches("^<a")`, Describe(SerializationMatches{Regex: "^<a"}))
}

func TestParseValidity(t *testing.T) {
	assert.Equal(t, ValidityValid, ParseValidity("valid"))
	assert.Equal(t, ValidityValid, ParseValidity(" Valid "))
	assert.Equal(t, ValidityInvalid, ParseValidity("invalid"))
	assert.Equal(t, ValidityIndeterminate, ParseValidity("implementation-defined"))
	assert.Equal(t, ValidityIndeterminate, ParseValidity(""))
}

func TestEnvironment_ContextSource(t *testing.T) {
	env := Environment{Sources: []Source{
		{Role: "$doc", File: "a.xml"},
		{Role: ".", File: "b.xml"},
	}}

	src := env.ContextSource()
	if assert.NotNil(t, src) {
		assert.Equal(t, "b.xml", src.File)
	}

	empty := Environment{}
	assert.Nil(t, empty.ContextSource())
}
