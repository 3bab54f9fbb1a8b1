// Package main is the fsentry command line tool.
//
// It exposes the library's path-handle operations for quick inspection
// and scripting:
//   - stat: properties of one path (kind, size, times, mime type)
//   - list: files or directories under a path, with wildcard patterns
//   - tree: directory tree snapshot
//   - size: recursive size with a human-readable total
//   - pack: create a zip or tar archive from a directory
//   - unpack: extract an archive
//
// Usage:
//
//	fsentry stat ./report.pdf
//	fsentry list -pattern '*.go' -recursive ./src
//	fsentry size ./data
//	fsentry pack -out bundle.tar.zst ./data
//
// The -dev flag enables debug logging through the library's logger.
package main
