// Package compare orchestrates one comparison run: enrichment, diffs, price
// decomposition, advantage ranking and chart payloads for a base vehicle and
// its competitors.
package compare

import (
	"github.com/go-playground/validator/v10"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
	"github.com/turtacn/AutoCompare-Intelligence/pkg/errors"
)

// MaxCompetitors bounds the competitor list of a single request.
const MaxCompetitors = 50

var validate = validator.New()

// Request is the input of a comparison run.
type Request struct {
	Base        *vehicle.Record   `json:"base" yaml:"base" validate:"required"`
	Competitors []*vehicle.Record `json:"competitors" yaml:"competitors" validate:"max=50,dive,required"`

	// Dismissed holds identity keys the user removed from the comparison.
	Dismissed []string `json:"dismissed,omitempty" yaml:"dismissed,omitempty"`

	// MaxSections and MaxRows override the configured advantage caps.
	MaxSections int `json:"maxSections,omitempty" yaml:"maxSections,omitempty" validate:"gte=0,lte=50"`
	MaxRows     int `json:"maxRows,omitempty" yaml:"maxRows,omitempty" validate:"gte=0,lte=200"`

	// NoCache bypasses the report cache.
	NoCache bool `json:"noCache,omitempty" yaml:"noCache,omitempty"`
}

// Validate checks the request shape. The returned error carries
// ErrCodeVehicleBaseMissing or ErrCodeValidation.
func (r *Request) Validate() error {
	if r == nil || r.Base == nil {
		return errors.New(errors.ErrCodeVehicleBaseMissing, "base vehicle is required")
	}
	if err := validate.Struct(r); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid comparison request")
	}
	return nil
}

// DismissedKeys normalizes user supplied keys to KeyForRow form.
func (r *Request) DismissedKeys() []string {
	out := make([]string, 0, len(r.Dismissed))
	for _, k := range r.Dismissed {
		out = append(out, vehicle.NormalizeKey(k))
	}
	return out
}
