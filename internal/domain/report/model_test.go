package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraft_Validate(t *testing.T) {
	valid := Draft{
		Description: "overflowing bin",
		Location:    Coordinates{Latitude: -23.55, Longitude: -46.63},
	}

	tests := []struct {
		name    string
		mutate  func(d *Draft)
		wantErr error
	}{
		{"valid", func(d *Draft) {}, nil},
		{"empty description", func(d *Draft) { d.Description = "" }, ErrEmptyDescription},
		{"whitespace description", func(d *Draft) { d.Description = "   \t" }, ErrEmptyDescription},
		{"latitude too high", func(d *Draft) { d.Location.Latitude = 90.5 }, ErrInvalidCoordinates},
		{"longitude too low", func(d *Draft) { d.Location.Longitude = -181 }, ErrInvalidCoordinates},
		{"NaN latitude", func(d *Draft) { d.Location.Latitude = math.NaN() }, ErrInvalidCoordinates},
		{"Inf longitude", func(d *Draft) { d.Location.Longitude = math.Inf(1) }, ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
