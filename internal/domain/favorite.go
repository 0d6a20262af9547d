package domain

// RouteKey identifies a directed route between two airports.
// A→B and B→A are different keys.
type RouteKey struct {
	DepartureCode   string
	DestinationCode string
}

// String renders the key as "DEP->DST", used in logs and lock diagnostics.
func (k RouteKey) String() string {
	return k.DepartureCode + "->" + k.DestinationCode
}

// Favorite is a route the user has marked. At most one Favorite exists per
// RouteKey. There is no foreign key to Airport: codes are stored as given.
type Favorite struct {
	ID              int64  `json:"id"`
	DepartureCode   string `json:"departure_code"`
	DestinationCode string `json:"destination_code"`
}

// Key returns the route identity of the favorite.
func (f Favorite) Key() RouteKey {
	return RouteKey{DepartureCode: f.DepartureCode, DestinationCode: f.DestinationCode}
}
