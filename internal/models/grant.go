package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DisclosureField string

// Closed whitelist of profile fields a responder may ever see. Anything not
// listed here can never flow through the emergency channel, regardless of
// grant configuration.
const (
	FieldBloodGroup         DisclosureField = "blood_group"
	FieldAllergies          DisclosureField = "allergies"
	FieldChronicConditions  DisclosureField = "chronic_conditions"
	FieldCurrentMedications DisclosureField = "current_medications"
	FieldEmergencyContacts  DisclosureField = "emergency_contacts"
	FieldLocation           DisclosureField = "location"
	FieldName               DisclosureField = "name"
	FieldAge                DisclosureField = "age"
	FieldOrganDonorStatus   DisclosureField = "organ_donor_status"
)

var disclosureWhitelist = map[DisclosureField]bool{
	FieldBloodGroup:         true,
	FieldAllergies:          true,
	FieldChronicConditions:  true,
	FieldCurrentMedications: true,
	FieldEmergencyContacts:  true,
	FieldLocation:           true,
	FieldName:               true,
	FieldAge:                true,
	FieldOrganDonorStatus:   true,
}

// Categories blocked from emergency access outright. Kept as named values so
// audit entries and documentation reference the same identifiers.
const (
	RestrictedMentalHealth        = "mental_health"
	RestrictedDiagnosticHistory   = "diagnostic_history"
	RestrictedPersonalDocuments   = "personal_documents"
	RestrictedFinancialRecords    = "financial_records"
	RestrictedInsuranceInfo       = "insurance_info"
	RestrictedMedicationAdherence = "medication_adherence"
)

// IsDisclosable reports whether a field is part of the closed whitelist.
func IsDisclosable(f DisclosureField) bool {
	return disclosureWhitelist[f]
}

// FilterDisclosable drops any field outside the closed whitelist. Grants are
// passed through this on creation and again on every read.
func FilterDisclosable(fields []DisclosureField) []DisclosureField {
	filtered := make([]DisclosureField, 0, len(fields))
	for _, f := range fields {
		if disclosureWhitelist[f] {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// DisclosureGrant is a time-boxed, field-scoped permission record created
// atomically with an SOS event and revoked when the event resolves.
type DisclosureGrant struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	SOSEventID primitive.ObjectID `json:"sos_event_id" bson:"sos_event_id" validate:"required"`
	Fields     []DisclosureField  `json:"fields" bson:"fields"`
	GrantedTo  string             `json:"granted_to" bson:"granted_to"`
	GrantedAt  time.Time          `json:"granted_at" bson:"granted_at"`
	ExpiresAt  time.Time          `json:"expires_at" bson:"expires_at"`
	Revoked    bool               `json:"revoked" bson:"revoked" default:"false"`
	RevokedAt  *time.Time         `json:"revoked_at" bson:"revoked_at"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// Readable is the one authorization check for responder access. Expiry is
// enforced lazily here on every read, never by a background sweep.
func (g *DisclosureGrant) Readable(now time.Time) bool {
	return !g.Revoked && now.Before(g.ExpiresAt)
}

// Allows reports whether the grant exposes the given field.
func (g *DisclosureGrant) Allows(f DisclosureField) bool {
	if !disclosureWhitelist[f] {
		return false
	}
	for _, granted := range g.Fields {
		if granted == f {
			return true
		}
	}
	return false
}

// EmergencyData is the minimal packet handed to responders. Only fields the
// active grant exposes are populated.
type EmergencyData struct {
	UserID             primitive.ObjectID `json:"user_id"`
	Name               string             `json:"name,omitempty"`
	Age                int                `json:"age,omitempty"`
	BloodGroup         string             `json:"blood_group,omitempty"`
	Allergies          []string           `json:"allergies,omitempty"`
	ChronicConditions  []string           `json:"chronic_conditions,omitempty"`
	CurrentMedications []string           `json:"current_medications,omitempty"`
	EmergencyContacts  []EmergencyContact `json:"emergency_contacts,omitempty"`
	OrganDonor         *bool              `json:"organ_donor,omitempty"`
	Latitude           float64            `json:"latitude"`
	Longitude          float64            `json:"longitude"`
	EmergencyType      string             `json:"emergency_type"`
	Status             SOSStatus          `json:"status"`
	GrantID            primitive.ObjectID `json:"grant_id"`
	ExpiresAt          time.Time          `json:"expires_at"`
}
