// Package compile runs the mylang engine over files, directories and
// in-memory sources, and loads the project configuration that drives it.
package compile
