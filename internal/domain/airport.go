// Package domain contains the core data types for the Flight Search application.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, session, handler).
package domain

import "strings"

// Airport is one row of the bundled airport directory.
// Airports are reference data: loaded once from the snapshot, never mutated.
// Passengers is a yearly traffic figure used only to rank search results.
type Airport struct {
	ID         int64  `json:"id"`
	IATACode   string `json:"iata_code"`
	Name       string `json:"name"`
	Passengers int64  `json:"passengers"`
}

// NormalizeCode trims surrounding whitespace and upper-cases an IATA code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
