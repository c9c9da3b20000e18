package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmergencyContact struct {
	Name         string `json:"name" bson:"name"`
	Phone        string `json:"phone" bson:"phone"`
	Relationship string `json:"relationship" bson:"relationship"`
}

// SharingPreferences controls which whitelisted fields an SOS grant exposes.
// Users can narrow the defaults but the set can never grow past the closed
// whitelist in grant.go. Name, age and organ donor status are opt-in.
type SharingPreferences struct {
	BloodGroup         bool `json:"blood_group" bson:"blood_group"`
	Allergies          bool `json:"allergies" bson:"allergies"`
	ChronicConditions  bool `json:"chronic_conditions" bson:"chronic_conditions"`
	CurrentMedications bool `json:"current_medications" bson:"current_medications"`
	EmergencyContacts  bool `json:"emergency_contacts" bson:"emergency_contacts"`
	Name               bool `json:"name" bson:"name"`
	Age                bool `json:"age" bson:"age"`
	OrganDonorStatus   bool `json:"organ_donor_status" bson:"organ_donor_status"`
}

func DefaultSharingPreferences() SharingPreferences {
	return SharingPreferences{
		BloodGroup:         true,
		Allergies:          true,
		ChronicConditions:  true,
		CurrentMedications: true,
		EmergencyContacts:  true,
	}
}

// GrantedFields maps the preferences to the disclosure fields an SOS grant
// will carry. Location is always shared; responders cannot reach the user
// without it.
func (p SharingPreferences) GrantedFields() []DisclosureField {
	fields := []DisclosureField{FieldLocation}
	if p.BloodGroup {
		fields = append(fields, FieldBloodGroup)
	}
	if p.Allergies {
		fields = append(fields, FieldAllergies)
	}
	if p.ChronicConditions {
		fields = append(fields, FieldChronicConditions)
	}
	if p.CurrentMedications {
		fields = append(fields, FieldCurrentMedications)
	}
	if p.EmergencyContacts {
		fields = append(fields, FieldEmergencyContacts)
	}
	if p.Name {
		fields = append(fields, FieldName)
	}
	if p.Age {
		fields = append(fields, FieldAge)
	}
	if p.OrganDonorStatus {
		fields = append(fields, FieldOrganDonorStatus)
	}
	return fields
}

// EmergencyProfile holds the medical facts a user maintains for emergencies.
// Insurance details are stored for the user's own reference but are never
// disclosable through the emergency channel.
type EmergencyProfile struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID             primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Name               string             `json:"name" bson:"name"`
	Age                int                `json:"age" bson:"age"`
	BloodGroup         string             `json:"blood_group" bson:"blood_group"`
	Allergies          []string           `json:"allergies" bson:"allergies"`
	ChronicConditions  []string           `json:"chronic_conditions" bson:"chronic_conditions"`
	CurrentMedications []string           `json:"current_medications" bson:"current_medications"`
	EmergencyContacts  []EmergencyContact `json:"emergency_contacts" bson:"emergency_contacts"`
	OrganDonor         *bool              `json:"organ_donor" bson:"organ_donor"`
	InsuranceProvider  string             `json:"insurance_provider" bson:"insurance_provider"`
	InsuranceID        string             `json:"insurance_id" bson:"insurance_id"`
	Sharing            SharingPreferences `json:"sharing" bson:"sharing"`
	AutoNotifyContacts bool               `json:"auto_notify_contacts" bson:"auto_notify_contacts" default:"true"`
	DeviceToken        string             `json:"device_token" bson:"device_token"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

func NewEmergencyProfile(userID primitive.ObjectID) *EmergencyProfile {
	now := time.Now()
	return &EmergencyProfile{
		UserID:             userID,
		Sharing:            DefaultSharingPreferences(),
		AutoNotifyContacts: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// EmergencyProfileUpdate carries a partial profile update. Pointer fields
// distinguish "not provided" from explicit zero values.
type EmergencyProfileUpdate struct {
	Name               *string             `json:"name"`
	Age                *int                `json:"age"`
	BloodGroup         *string             `json:"blood_group"`
	Allergies          []string            `json:"allergies"`
	ChronicConditions  []string            `json:"chronic_conditions"`
	CurrentMedications []string            `json:"current_medications"`
	EmergencyContacts  []EmergencyContact  `json:"emergency_contacts"`
	OrganDonor         *bool               `json:"organ_donor"`
	InsuranceProvider  *string             `json:"insurance_provider"`
	InsuranceID        *string             `json:"insurance_id"`
	Sharing            *SharingPreferences `json:"sharing"`
	AutoNotifyContacts *bool               `json:"auto_notify_contacts"`
	DeviceToken        *string             `json:"device_token"`
}
