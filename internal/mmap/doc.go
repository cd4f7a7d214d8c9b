// Package mmap maps catalog segment files read-only into memory.
//
// Segments are immutable once written, so a shared read-only mapping is safe
// for the lifetime of the Mapping. On platforms without mmap support the file
// is read into a heap buffer instead; callers see the same API.
package mmap
