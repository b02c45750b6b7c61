// Package source reads configuration documents and layers them into a
// single merged tree.
//
// Exactly two documents are layered per call: a base document and an
// environment overlay. Mappings present on both sides merge key by key;
// any other overlay value replaces the base value. A mapping on one side
// facing a non-mapping on the other, or a list facing a scalar, is a
// configuration error rather than a silent replacement.
package source
