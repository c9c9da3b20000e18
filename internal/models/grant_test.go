package models

import (
	"testing"
	"time"
)

func TestGrantReadable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		grant    DisclosureGrant
		readable bool
	}{
		{
			name:     "active grant",
			grant:    DisclosureGrant{ExpiresAt: now.Add(time.Hour)},
			readable: true,
		},
		{
			name:     "expired grant",
			grant:    DisclosureGrant{ExpiresAt: now.Add(-time.Minute)},
			readable: false,
		},
		{
			name:     "revoked grant still within its window",
			grant:    DisclosureGrant{ExpiresAt: now.Add(time.Hour), Revoked: true},
			readable: false,
		},
		{
			name:     "expiry boundary",
			grant:    DisclosureGrant{ExpiresAt: now},
			readable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grant.Readable(now); got != tt.readable {
				t.Errorf("Readable() = %v, want %v", got, tt.readable)
			}
		})
	}
}

func TestGrantAllows(t *testing.T) {
	grant := DisclosureGrant{
		Fields: []DisclosureField{FieldBloodGroup, FieldAllergies, FieldLocation},
	}

	if !grant.Allows(FieldBloodGroup) {
		t.Error("granted field should be allowed")
	}
	if grant.Allows(FieldEmergencyContacts) {
		t.Error("ungranted field should be denied")
	}

	// A tampered grant carrying a non-whitelisted field must still deny it.
	grant.Fields = append(grant.Fields, DisclosureField(RestrictedInsuranceInfo))
	if grant.Allows(DisclosureField(RestrictedInsuranceInfo)) {
		t.Error("field outside the whitelist must never be allowed")
	}
}

func TestFilterDisclosable(t *testing.T) {
	fields := []DisclosureField{
		FieldBloodGroup,
		DisclosureField(RestrictedMentalHealth),
		FieldAllergies,
		DisclosureField(RestrictedFinancialRecords),
		DisclosureField("made_up_field"),
		FieldOrganDonorStatus,
	}

	filtered := FilterDisclosable(fields)
	want := []DisclosureField{FieldBloodGroup, FieldAllergies, FieldOrganDonorStatus}
	if len(filtered) != len(want) {
		t.Fatalf("got %d fields, want %d: %v", len(filtered), len(want), filtered)
	}
	for i, f := range want {
		if filtered[i] != f {
			t.Errorf("filtered[%d] = %s, want %s", i, filtered[i], f)
		}
	}
}

func TestIsDisclosable(t *testing.T) {
	for _, f := range []DisclosureField{
		FieldBloodGroup, FieldAllergies, FieldChronicConditions,
		FieldCurrentMedications, FieldEmergencyContacts, FieldLocation,
		FieldName, FieldAge, FieldOrganDonorStatus,
	} {
		if !IsDisclosable(f) {
			t.Errorf("%s should be disclosable", f)
		}
	}
	for _, f := range []string{
		RestrictedMentalHealth, RestrictedDiagnosticHistory,
		RestrictedPersonalDocuments, RestrictedFinancialRecords,
		RestrictedInsuranceInfo, RestrictedMedicationAdherence,
	} {
		if IsDisclosable(DisclosureField(f)) {
			t.Errorf("%s must never be disclosable", f)
		}
	}
}

func TestSharingPreferencesGrantedFields(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		fields := DefaultSharingPreferences().GrantedFields()

		has := make(map[DisclosureField]bool, len(fields))
		for _, f := range fields {
			has[f] = true
		}
		if !has[FieldLocation] {
			t.Error("location is always granted")
		}
		if !has[FieldBloodGroup] || !has[FieldAllergies] || !has[FieldEmergencyContacts] {
			t.Error("medical defaults should be granted")
		}
		if has[FieldName] || has[FieldAge] || has[FieldOrganDonorStatus] {
			t.Error("identity fields are opt-in and must be absent by default")
		}
	})

	t.Run("everything off still shares location", func(t *testing.T) {
		fields := SharingPreferences{}.GrantedFields()
		if len(fields) != 1 || fields[0] != FieldLocation {
			t.Errorf("got %v, want only location", fields)
		}
	})

	t.Run("opt-in fields", func(t *testing.T) {
		prefs := DefaultSharingPreferences()
		prefs.Name = true
		prefs.OrganDonorStatus = true

		has := make(map[DisclosureField]bool)
		for _, f := range prefs.GrantedFields() {
			has[f] = true
		}
		if !has[FieldName] || !has[FieldOrganDonorStatus] {
			t.Error("opted-in fields should be granted")
		}
		if has[FieldAge] {
			t.Error("age was not opted in")
		}
	})
}
