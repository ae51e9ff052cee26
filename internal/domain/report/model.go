// Package report holds the waste report aggregate shared by the client
// store, the sync pipeline and the server API.
package report

import (
	"math"
	"strings"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AccelerometerReading is a single sample captured at report time.
type AccelerometerReading struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Report is one waste/sanitation incident. Timestamp is RFC3339, assigned
// once at creation and never rewritten, not even when the ID changes after
// a successful upload. The sensor fields are each independently optional.
type Report struct {
	ID            ID                    `json:"id"`
	Description   string                `json:"description"`
	Photos        []string              `json:"photos"`
	Location      Coordinates           `json:"location"`
	Timestamp     string                `json:"timestamp"`
	NoiseLevel    *float64              `json:"noiseLevel,omitempty"`
	LightLevel    *float64              `json:"lightLevel,omitempty"`
	Accelerometer *AccelerometerReading `json:"accelerometer,omitempty"`
}

// Draft is the caller-supplied part of a report, before an ID and
// timestamp are assigned.
type Draft struct {
	Description   string                `json:"description"`
	Photos        []string              `json:"photos"`
	Location      Coordinates           `json:"location"`
	NoiseLevel    *float64              `json:"noiseLevel,omitempty"`
	LightLevel    *float64              `json:"lightLevel,omitempty"`
	Accelerometer *AccelerometerReading `json:"accelerometer,omitempty"`
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if err := d.Location.Validate(); err != nil {
		return err
	}
	return nil
}

func (c Coordinates) Validate() error {
	if !finite(c.Latitude) || !finite(c.Longitude) {
		return ErrInvalidCoordinates
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return ErrInvalidCoordinates
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
