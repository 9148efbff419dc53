package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnsupported_Sentinel(t *testing.T) {
	err := Unsupportedf("xslt transformation")

	assert.True(t, IsUnsupported(err))
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestIsUnsupported_Wrapped(t *testing.T) {
	err := fmt.Errorf("running case: %w", Unsupportedf("schema validation"))

	assert.True(t, IsUnsupported(err))
}

func TestIsUnsupported_OtherErrors(t *testing.T) {
	assert.False(t, IsUnsupported(nil))
	assert.False(t, IsUnsupported(Errorf(CodeParse, "bad token")))
	assert.False(t, IsUnsupported(errors.New("plain")))
}

func TestError_Message(t *testing.T) {
	plain := Errorf(CodeXPath, "compile %q", "1 +")
	assert.Equal(t, `xpath: compile "1 +"`, plain.Error())

	cause := errors.New("token error")
	wrapped := Wrap(CodeParse, cause, "parse doc.xml")
	assert.Equal(t, "parse: parse doc.xml: token error", wrapped.Error())
	assert.True(t, errors.Is(wrapped, cause))
}
