package validation

import (
	"regexp"

	"github.com/ukydev/car-maintenance-tracker/internal/models"
)

var datePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

const (
	ReasonDateFormat    = "Invalid date format. Expected dd.MM.yyyy"
	ReasonMileage       = "Mileage must be non-negative"
	ReasonOperationName = "Operation name is required"
	ReasonCarID         = "Car ID is required"
)

// ValidateMaintenance runs the save rules on m. All rules are evaluated; a
// non-nil result is always a *Error.
func ValidateMaintenance(m models.Maintenance) error {
	return maintenanceViolations(m, false).err()
}

// ValidateMaintenancePayload runs the save rules plus the car id presence
// check required of a maintenance payload, reporting every violation at once.
func ValidateMaintenancePayload(m models.Maintenance) error {
	return maintenanceViolations(m, true).err()
}

func maintenanceViolations(m models.Maintenance, requireCarID bool) violations {
	var v violations
	v.check(datePattern.MatchString(m.Date), ReasonDateFormat)
	v.check(m.Mileage != nil && *m.Mileage >= 0, ReasonMileage)
	v.check(!blank(m.OperationName), ReasonOperationName)
	if requireCarID {
		v.check(m.CarID != 0, ReasonCarID)
	}
	return v
}
