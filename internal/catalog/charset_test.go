package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeToUTF8_PassThrough(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?><catalog/>`)

	out, err := decodeToUTF8(data)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestDecodeToUTF8_NoDeclaration(t *testing.T) {
	data := []byte(`<catalog/>`)

	out, err := decodeToUTF8(data)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestDecodeToUTF8_Latin1(t *testing.T) {
	// "café" with an ISO-8859-1 e-acute (0xE9).
	data := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><catalog name="caf`), 0xE9, '"', '/', '>')

	out, err := decodeToUTF8(data)
	require.NoError(t, err)

	assert.Contains(t, string(out), "café")
	// The stale prolog is gone so nothing re-decodes the bytes.
	assert.NotContains(t, string(out), "<?xml")
}

func TestDecodeToUTF8_UnknownEncoding(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="EBCDIC-FUTURE"?><catalog/>`)

	_, err := decodeToUTF8(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EBCDIC-FUTURE")
}
