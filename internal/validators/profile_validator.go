package validators

import (
	"fmt"

	"lifeline/internal/models"
	"lifeline/internal/utils"
)

type bloodGroupCheck struct {
	BloodGroup string `validate:"blood_group"`
}

func ValidateProfileUpdate(req *models.EmergencyProfileUpdate) ValidationErrors {
	var errs ValidationErrors

	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		errs = append(errs, ValidationError{
			Field:   "age",
			Message: "Age must be between 0 and 150",
		})
	}

	if req.BloodGroup != nil && *req.BloodGroup != "" {
		if structErrs := ValidateStruct(bloodGroupCheck{BloodGroup: *req.BloodGroup}); len(structErrs) > 0 {
			errs = append(errs, ValidationError{
				Field:   "blood_group",
				Message: "Invalid blood group",
			})
		}
	}

	for i, contact := range req.EmergencyContacts {
		if contact.Name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("emergency_contacts[%d].name", i),
				Message: "Contact name is required",
			})
		}
		if !utils.IsValidPhone(contact.Phone) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("emergency_contacts[%d].phone", i),
				Message: "Invalid phone number format",
			})
		}
	}

	return errs
}
