// Package output turns configuration trees into generated files.
//
// The package is organized around three concerns:
//
//   - Generation (generate.go): [Generate] renders a tree, prepends the
//     fixed [Header] banner and overwrites the destination file.
//
//   - Writers (writer.go): Pluggable output destinations via the [Writer]
//     interface, with [StdoutWriter] and [FileWriter] implementations.
//
//   - Formats (registry.go): Named encoders ("yaml", "json") for commands
//     that print a tree instead of generating a file.
package output
