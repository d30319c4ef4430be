package domain

import "math"

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within latitude [-90,90] and longitude [-180,180].
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Location is either a resolved point or Unresolved. Unresolved is a normal
// outcome of geocoding, not a failure.
type Location struct {
	coords   Coordinates
	resolved bool
}

// Resolved wraps valid coordinates. Invalid coordinates yield Unresolved.
func Resolved(c Coordinates) Location {
	if !c.Valid() {
		return Location{}
	}
	return Location{coords: c, resolved: true}
}

// Unresolved returns the "no coordinates could be determined" location.
func Unresolved() Location { return Location{} }

// LocationOf converts an optional stored point into a Location.
func LocationOf(c *Coordinates) Location {
	if c == nil {
		return Unresolved()
	}
	return Resolved(*c)
}

// IsResolved reports whether coordinates are known.
func (l Location) IsResolved() bool { return l.resolved }

// Coordinates returns the point and whether it is known.
func (l Location) Coordinates() (Coordinates, bool) { return l.coords, l.resolved }

// Ptr returns a copy of the point, or nil when unresolved.
func (l Location) Ptr() *Coordinates {
	if !l.resolved {
		return nil
	}
	c := l.coords
	return &c
}
