package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence_String(t *testing.T) {
	seq := Sequence{Items: []Item{
		{Kind: ItemInteger, Value: "1"},
		{Kind: ItemString, Value: "two"},
		{Kind: ItemBoolean, Value: "true"},
	}}

	assert.Equal(t, "1 two true", seq.String())
	assert.Equal(t, 3, seq.Count())
	assert.False(t, seq.Empty())
}

func TestSequence_Empty(t *testing.T) {
	var seq Sequence

	assert.True(t, seq.Empty())
	assert.Equal(t, "", seq.String())
	assert.Empty(t, seq.Strings())
}

func TestCapabilities_SupportsSpec(t *testing.T) {
	caps := Capabilities{
		Specs:    []string{"XP10", "XP20"},
		Versions: map[Kind]string{KindXPath: "1.0"},
	}

	assert.True(t, caps.SupportsSpec("XP20"))
	assert.False(t, caps.SupportsSpec("XQ10"))
	assert.Equal(t, "1.0", caps.DeclaredVersion(KindXPath))
	assert.Equal(t, "", caps.DeclaredVersion(KindXSLT))
}
