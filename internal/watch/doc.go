// Package watch regenerates Evergreen configuration files while their
// source documents are being edited. It watches the directories holding
// the sources, debounces rapid events, and calls back into the generation
// pipeline.
package watch
