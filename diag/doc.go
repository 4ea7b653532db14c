// Package diag records the problems found while parsing mylang source.
//
// A Manager is the single authority that decides whether a detected
// problem is recorded, whether parsing can recover from it, and when a
// cascade of reports caused by one fault must be suppressed. It reads the
// current token position through a Locator, normally the scanner state.
package diag
