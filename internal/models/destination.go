package models

import "time"

// CrowdLevel is the expected crowd classification at a destination.
type CrowdLevel string

const (
	CrowdLow      CrowdLevel = "Low"
	CrowdModerate CrowdLevel = "Moderate"
	CrowdHigh     CrowdLevel = "High"
	CrowdVeryHigh CrowdLevel = "Very High"
)

// Destination is a temple or pilgrimage site that can be added to a yatra plan.
// EstimatedDays and EstimatedCost are optional; zero means "not set".
type Destination struct {
	ID            string            `json:"id" bson:"_id" yaml:"id"`
	Name          string            `json:"name" bson:"name" yaml:"name"`
	Names         map[string]string `json:"names,omitempty" bson:"names,omitempty" yaml:"names,omitempty"` // locale -> display name
	Location      string            `json:"location" bson:"location" yaml:"location"`
	Coordinates   Location          `json:"coordinates" bson:"coordinates" yaml:"coordinates"`
	EstimatedDays int               `json:"estimatedDays,omitempty" bson:"estimated_days,omitempty" yaml:"estimatedDays,omitempty"`
	EstimatedCost float64           `json:"estimatedCost,omitempty" bson:"estimated_cost,omitempty" yaml:"estimatedCost,omitempty"` // in INR
	CrowdLevel    CrowdLevel        `json:"crowdLevel,omitempty" bson:"crowd_level,omitempty" yaml:"crowdLevel,omitempty"`
	Description   string            `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt     time.Time         `json:"createdAt,omitempty" bson:"created_at,omitempty" yaml:"-"`
	UpdatedAt     time.Time         `json:"updatedAt,omitempty" bson:"updated_at,omitempty" yaml:"-"`
}

// Localized returns a copy of the destination whose Name is the display name
// for locale, falling back to the default name.
func (d Destination) Localized(locale string) Destination {
	if name, ok := d.Names[locale]; ok && name != "" {
		d.Name = name
	}
	return d
}
