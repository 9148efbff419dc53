// Package model defines the parsed representation of conformance test
// catalogs: catalogs, test sets, environments, test cases, and the
// recursive assertion tree a test case is judged against.
//
// Everything in this package is built once by the catalog loaders and is
// immutable afterwards. Nothing here touches the filesystem or an engine;
// file references are plain paths resolved by the loader relative to the
// owning test-set file.
package model
