package catalog

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

var encodingDecl = regexp.MustCompile(`encoding\s*=\s*["']([A-Za-z][A-Za-z0-9._-]*)["']`)

// decodeToUTF8 transcodes a catalog file to UTF-8 based on the encoding
// declared in its XML prolog. UTF-8 input passes through untouched.
// After transcoding the prolog is dropped so the stale encoding
// declaration cannot trigger a second conversion downstream.
func decodeToUTF8(data []byte) ([]byte, error) {
	prolog := data
	if len(prolog) > 256 {
		prolog = prolog[:256]
	}
	if !bytes.HasPrefix(bytes.TrimLeft(prolog, "\xef\xbb\xbf \t\r\n"), []byte("<?xml")) {
		return data, nil
	}
	m := encodingDecl.FindSubmatch(prolog)
	if m == nil {
		return data, nil
	}
	name := string(m[1])
	if strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return data, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("transcode from %q: %w", name, err)
	}
	return stripProlog(decoded), nil
}

func stripProlog(data []byte) []byte {
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		return data
	}
	if i := bytes.Index(data, []byte("?>")); i >= 0 {
		return data[i+2:]
	}
	return data
}
