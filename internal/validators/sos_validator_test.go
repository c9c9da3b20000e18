package validators

import (
	"testing"

	"lifeline/internal/models"
)

func TestValidateSOSCreate(t *testing.T) {
	tests := []struct {
		name      string
		request   models.SOSCreateRequest
		wantValid bool
	}{
		{"valid medical", models.SOSCreateRequest{Latitude: 12.97, Longitude: 77.59, EmergencyType: "medical"}, true},
		{"valid cardiac", models.SOSCreateRequest{Latitude: -33.86, Longitude: 151.21, EmergencyType: "cardiac"}, true},
		{"missing type", models.SOSCreateRequest{Latitude: 12.97, Longitude: 77.59}, false},
		{"unknown type", models.SOSCreateRequest{Latitude: 12.97, Longitude: 77.59, EmergencyType: "haircut"}, false},
		{"latitude too high", models.SOSCreateRequest{Latitude: 95, Longitude: 77.59, EmergencyType: "medical"}, false},
		{"longitude too low", models.SOSCreateRequest{Latitude: 12.97, Longitude: -200, EmergencyType: "medical"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSOSCreate(&tt.request)
			if valid := len(errs) == 0; valid != tt.wantValid {
				t.Errorf("got errors %v, want valid=%v", errs, tt.wantValid)
			}
		})
	}
}

func TestValidateSOSDispatch(t *testing.T) {
	route := []models.LatLng{{Lat: 12.95, Lng: 77.60}, {Lat: 12.97, Lng: 77.59}}

	tests := []struct {
		name      string
		request   models.SOSDispatchRequest
		wantValid bool
	}{
		{"route supplied", models.SOSDispatchRequest{AmbulanceID: "AMB-1", RoutePoints: route}, true},
		{"location supplied", models.SOSDispatchRequest{AmbulanceID: "AMB-1", AmbulanceLocation: &models.LatLng{Lat: 12.95, Lng: 77.60}}, true},
		{"missing ambulance", models.SOSDispatchRequest{RoutePoints: route}, false},
		{"nothing to route from", models.SOSDispatchRequest{AmbulanceID: "AMB-1"}, false},
		{"single point route", models.SOSDispatchRequest{AmbulanceID: "AMB-1", RoutePoints: route[:1]}, false},
		{"route with bad coordinates", models.SOSDispatchRequest{AmbulanceID: "AMB-1", RoutePoints: []models.LatLng{{Lat: 12.95, Lng: 77.60}, {Lat: 100, Lng: 77.59}}}, false},
		{"location out of range", models.SOSDispatchRequest{AmbulanceID: "AMB-1", AmbulanceLocation: &models.LatLng{Lat: 12.95, Lng: 200}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSOSDispatch(&tt.request)
			if valid := len(errs) == 0; valid != tt.wantValid {
				t.Errorf("got errors %v, want valid=%v", errs, tt.wantValid)
			}
		})
	}
}

func TestValidateSOSPositionUpdate(t *testing.T) {
	valid := models.SOSPositionUpdate{Position: models.LatLng{Lat: 12.96, Lng: 77.59}, ProgressIndex: 10}
	if errs := ValidateSOSPositionUpdate(&valid); len(errs) != 0 {
		t.Errorf("valid update rejected: %v", errs)
	}

	negative := models.SOSPositionUpdate{Position: models.LatLng{Lat: 12.96, Lng: 77.59}, ProgressIndex: -1}
	if errs := ValidateSOSPositionUpdate(&negative); len(errs) == 0 {
		t.Error("negative progress index should be rejected")
	}

	badCoords := models.SOSPositionUpdate{Position: models.LatLng{Lat: 95, Lng: 77.59}}
	if errs := ValidateSOSPositionUpdate(&badCoords); len(errs) == 0 {
		t.Error("out-of-range position should be rejected")
	}
}

func TestValidateProfileUpdate(t *testing.T) {
	age := 34
	badAge := 151
	blood := "O-"
	badBlood := "Q+"

	t.Run("valid", func(t *testing.T) {
		errs := ValidateProfileUpdate(&models.EmergencyProfileUpdate{
			Age:        &age,
			BloodGroup: &blood,
			EmergencyContacts: []models.EmergencyContact{
				{Name: "Ravi", Phone: "+919812345678"},
			},
		})
		if len(errs) != 0 {
			t.Errorf("valid update rejected: %v", errs)
		}
	})

	t.Run("bad age", func(t *testing.T) {
		if errs := ValidateProfileUpdate(&models.EmergencyProfileUpdate{Age: &badAge}); len(errs) == 0 {
			t.Error("age 151 should be rejected")
		}
	})

	t.Run("bad blood group", func(t *testing.T) {
		if errs := ValidateProfileUpdate(&models.EmergencyProfileUpdate{BloodGroup: &badBlood}); len(errs) == 0 {
			t.Error("unknown blood group should be rejected")
		}
	})

	t.Run("contact without name", func(t *testing.T) {
		errs := ValidateProfileUpdate(&models.EmergencyProfileUpdate{
			EmergencyContacts: []models.EmergencyContact{{Phone: "+919812345678"}},
		})
		if len(errs) == 0 {
			t.Error("contact without a name should be rejected")
		}
	})
}
