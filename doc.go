// Package fsentry provides an object-oriented handle over filesystem
// paths, modeled on the classic FileInfo/DirectoryInfo API family.
//
// This package is organized into specialized modules:
//   - entry: path validation, canonical form, live metadata properties
//   - operations: file manipulation (copy, move, delete, rename, replace)
//   - open: file handles with kind and existence guards
//   - search: directory walkers (top-level and breadth-first recursive)
//   - flags: attribute and security-information bitflag domains
//   - capability: platform-specific extensions (attributes, security
//     descriptors, encryption, per-file compression, shared opens)
//   - formats: structured content helpers (JSON, YAML, TOML, CSV)
//   - archive: archive creation and extraction (zip, tar.gz, tar.zst)
//
// All properties and operations:
//   - Query the live filesystem on every call (no caching)
//   - Surface typed errors callers can branch on with errors.Is
//   - Block until the underlying OS call completes
//
// An Entry carries no OS handle and no lock; handles returned by the
// Open family are owned by the caller.
//
// Example Usage:
//
//	e, err := fsentry.New("./data")
//	if err != nil { ... }
//	files, err := e.Files("*.txt", fsentry.TopDirectoryOnly)
package fsentry
