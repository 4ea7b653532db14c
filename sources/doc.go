// Package sources locates mylang programs on disk, either as standalone
// files or as fenced code blocks inside markdown documents.
package sources
