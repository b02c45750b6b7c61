// Package settings defines the typed settings tree and materializes it from
// a merged configuration tree.
//
// Decoding is strict. Fields are matched by their mapstructure tag. A field
// without a pointer type and without the omitempty option is required; a
// pointer field is absent (nil) when its key is missing; an omitempty field
// takes its zero value when missing. Optional sections that are present are
// decoded with the same rules, so a present logging table without a level
// fails just like a missing server port.
package settings
