// Package normalisers provides format parsers that turn raw document
// bytes into flattened plain text. Each format lives in its own
// subpackage; Registry dispatches on file extension.
package normalisers
