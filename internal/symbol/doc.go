// Package symbol turns raw frame tokens into canonical function names.
//
// Normalization has three layers: substitution of the unresolved-symbol
// placeholder, generic cleanup (delimiter escaping, signature stripping),
// and runtime-specific cleanup for Java mangled names. Annotation appends
// at most one origin marker per frame: _[i] inlined, _[k] kernel, _[j]
// jitted.
package symbol
