package models

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Lat float64 `bson:"lat" json:"lat" yaml:"lat"`
	Lng float64 `bson:"lng" json:"lng" yaml:"lng"`
}

// Valid reports whether the coordinates fall inside the WGS84 ranges.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}
