// Package manifest persists the completion record of a matrix catalog.
//
// # Layout
//
// Every catalog of bound b lives under the directory d{b} of a blob store:
//
//	d{b}/det{k}-{seg:06d}.seg   segments of determinant bucket k
//	d{b}/MANIFEST               manifest, written last
//
// The manifest lists every segment with its matrix count. Its presence is the
// completion marker: a catalog directory holding segments but no readable
// manifest is the residue of an interrupted generation and must be rebuilt.
//
// # Encoding
//
// Manifests are JSON (goccy/go-json by default) so they stay inspectable with
// ordinary tools. The blob store's Put is atomic, so readers observe either
// no manifest or a complete one.
package manifest
