package validators

import (
	"lifeline/internal/models"
)

var validEmergencyTypes = map[string]bool{
	"medical":  true,
	"accident": true,
	"cardiac":  true,
	"stroke":   true,
	"trauma":   true,
	"other":    true,
}

func ValidateSOSCreate(req *models.SOSCreateRequest) ValidationErrors {
	var errs ValidationErrors

	if req.Latitude < -90 || req.Latitude > 90 {
		errs = append(errs, ValidationError{
			Field:   "latitude",
			Message: "Latitude must be between -90 and 90",
		})
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		errs = append(errs, ValidationError{
			Field:   "longitude",
			Message: "Longitude must be between -180 and 180",
		})
	}
	if req.EmergencyType == "" {
		errs = append(errs, ValidationError{
			Field:   "emergency_type",
			Message: "emergency_type is required",
		})
	} else if !validEmergencyTypes[req.EmergencyType] {
		errs = append(errs, ValidationError{
			Field:   "emergency_type",
			Message: "Unknown emergency type",
		})
	}

	return errs
}

func ValidateSOSDispatch(req *models.SOSDispatchRequest) ValidationErrors {
	var errs ValidationErrors

	if req.AmbulanceID == "" {
		errs = append(errs, ValidationError{
			Field:   "ambulance_id",
			Message: "ambulance_id is required",
		})
	}
	if len(req.RoutePoints) == 0 && req.AmbulanceLocation == nil {
		errs = append(errs, ValidationError{
			Field:   "route_points",
			Message: "Either route_points or ambulance_location is required",
		})
	}
	if len(req.RoutePoints) == 1 {
		errs = append(errs, ValidationError{
			Field:   "route_points",
			Message: "A route needs at least a start and an end point",
		})
	}
	if req.AmbulanceLocation != nil {
		if req.AmbulanceLocation.Lat < -90 || req.AmbulanceLocation.Lat > 90 ||
			req.AmbulanceLocation.Lng < -180 || req.AmbulanceLocation.Lng > 180 {
			errs = append(errs, ValidationError{
				Field:   "ambulance_location",
				Message: "Ambulance location coordinates are out of range",
			})
		}
	}
	for _, p := range req.RoutePoints {
		if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
			errs = append(errs, ValidationError{
				Field:   "route_points",
				Message: "Route contains out-of-range coordinates",
			})
			break
		}
	}

	return errs
}

func ValidateSOSPositionUpdate(req *models.SOSPositionUpdate) ValidationErrors {
	var errs ValidationErrors

	if req.Position.Lat < -90 || req.Position.Lat > 90 ||
		req.Position.Lng < -180 || req.Position.Lng > 180 {
		errs = append(errs, ValidationError{
			Field:   "position",
			Message: "Position coordinates are out of range",
		})
	}
	if req.ProgressIndex < 0 {
		errs = append(errs, ValidationError{
			Field:   "progress_index",
			Message: "progress_index cannot be negative",
		})
	}

	return errs
}
