package domain

// Flight is a possible route from a selected departure airport.
// Flights are never stored; they are recomputed on every selection and
// decorated with favorite status at display time.
type Flight struct {
	DepartureCode   string `json:"departure_code"`
	DepartureName   string `json:"departure_name"`
	DestinationCode string `json:"destination_code"`
	DestinationName string `json:"destination_name"`
}

// Key returns the route identity of the flight.
func (f Flight) Key() RouteKey {
	return RouteKey{DepartureCode: f.DepartureCode, DestinationCode: f.DestinationCode}
}

// NewFlight pairs a departure airport with one of its destinations.
func NewFlight(departure, destination Airport) Flight {
	return Flight{
		DepartureCode:   departure.IATACode,
		DepartureName:   departure.Name,
		DestinationCode: destination.IATACode,
		DestinationName: destination.Name,
	}
}

// FavoriteSet is a membership index over a list of favorites.
type FavoriteSet map[RouteKey]struct{}

// NewFavoriteSet indexes favs by route key.
func NewFavoriteSet(favs []Favorite) FavoriteSet {
	s := make(FavoriteSet, len(favs))
	for _, f := range favs {
		s[f.Key()] = struct{}{}
	}
	return s
}

// Contains reports whether key is a favorite.
func (s FavoriteSet) Contains(key RouteKey) bool {
	_, ok := s[key]
	return ok
}
