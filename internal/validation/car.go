package validation

import (
	"regexp"

	"github.com/ukydev/car-maintenance-tracker/internal/models"
)

// VINs exclude I, O and Q.
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// MinCarYear is the oldest model year accepted.
const MinCarYear = 1900

const ReasonCarMileageRequired = "Mileage is required"

// ValidateCar checks the field rules of a car payload. An empty VIN is
// allowed; a present one must match the pattern.
func ValidateCar(c models.Car) error {
	var v violations
	v.check(!blank(c.Brand), "Brand is required")
	v.check(!blank(c.Model), "Model is required")
	v.check(c.Year >= MinCarYear, "Year must be at least 1900")
	v.check(c.VIN == "" || vinPattern.MatchString(c.VIN), "Invalid VIN format")
	if c.Mileage == nil {
		v.add(ReasonCarMileageRequired)
	} else {
		v.check(*c.Mileage >= 0, "Mileage cannot be negative")
	}
	return v.err()
}
