// Package connectors provides implementations of the Scanner interface
// for document sources. Each connector knows how to discover candidate
// documents in a specific location type.
//
// The filesystem connector is currently the only source; network drives
// mounted locally are covered by it.
package connectors
