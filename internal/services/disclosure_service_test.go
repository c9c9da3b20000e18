package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifeline/internal/models"
	"lifeline/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type disclosureFixture struct {
	sos        SOSService
	disclosure DisclosureService
	grantRepo  *fakeGrantRepo
	auditRepo  *fakeAuditRepo
	profile    *models.EmergencyProfile
	event      *models.SOSEvent
}

// newDisclosureFixture triggers an SOS for a user with a fully populated
// profile and returns both services so tests drive the real grant flow.
func newDisclosureFixture(t *testing.T, sharing models.SharingPreferences) *disclosureFixture {
	t.Helper()
	log := testLogger(t)

	sosRepo := newFakeSOSRepo()
	grantRepo := newFakeGrantRepo()
	profileRepo := newFakeProfileRepo()
	auditRepo := &fakeAuditRepo{}
	audit := NewAuditService(auditRepo, log)

	userID := primitive.NewObjectID()
	donor := true
	profile := &models.EmergencyProfile{
		UserID:             userID,
		Name:               "Asha Rao",
		Age:                34,
		BloodGroup:         "O-",
		Allergies:          []string{"penicillin"},
		ChronicConditions:  []string{"asthma"},
		CurrentMedications: []string{"salbutamol"},
		EmergencyContacts:  []models.EmergencyContact{{Name: "Ravi", Phone: "+919812345678", Relationship: "spouse"}},
		OrganDonor:         &donor,
		InsuranceProvider:  "Acme Health",
		InsuranceID:        "POL-991",
		Sharing:            sharing,
	}
	profileRepo.profiles[userID] = profile

	sos := NewSOSService(sosRepo, grantRepo, profileRepo, audit, nil, nil, nil, log)
	disclosure := NewDisclosureService(sosRepo, grantRepo, profileRepo, audit, log)

	event, err := sos.TriggerSOS(context.Background(), &models.SOSCreateRequest{
		UserID:        userID,
		Latitude:      12.9716,
		Longitude:     77.5946,
		EmergencyType: "cardiac",
	})
	if err != nil {
		t.Fatalf("TriggerSOS: %v", err)
	}

	return &disclosureFixture{
		sos:        sos,
		disclosure: disclosure,
		grantRepo:  grantRepo,
		auditRepo:  auditRepo,
		profile:    profile,
		event:      event,
	}
}

func TestGetDisclosureDefaults(t *testing.T) {
	f := newDisclosureFixture(t, models.DefaultSharingPreferences())
	ctx := context.Background()

	data, err := f.disclosure.GetDisclosure(ctx, f.event.ID, utils.EmergencyResponderParty)
	if err != nil {
		t.Fatalf("GetDisclosure: %v", err)
	}

	if data.BloodGroup != "O-" {
		t.Errorf("blood group = %q, want O-", data.BloodGroup)
	}
	if len(data.Allergies) != 1 || data.Allergies[0] != "penicillin" {
		t.Errorf("allergies = %v", data.Allergies)
	}
	if len(data.EmergencyContacts) != 1 {
		t.Errorf("contacts = %v", data.EmergencyContacts)
	}
	if data.Latitude != 12.9716 || data.Longitude != 77.5946 {
		t.Errorf("location = %f,%f", data.Latitude, data.Longitude)
	}

	// Opt-in fields stay hidden under default preferences.
	if data.Name != "" {
		t.Error("name must not be disclosed without opt-in")
	}
	if data.Age != 0 {
		t.Error("age must not be disclosed without opt-in")
	}
	if data.OrganDonor != nil {
		t.Error("organ donor status must not be disclosed without opt-in")
	}

	if !f.auditRepo.hasAction(models.AuditActionEmergencyAccess) {
		t.Error("disclosure read should be audited")
	}
}

func TestGetDisclosureOptIn(t *testing.T) {
	prefs := models.DefaultSharingPreferences()
	prefs.Name = true
	prefs.Age = true
	prefs.OrganDonorStatus = true
	f := newDisclosureFixture(t, prefs)

	data, err := f.disclosure.GetDisclosure(context.Background(), f.event.ID, utils.EmergencyResponderParty)
	if err != nil {
		t.Fatalf("GetDisclosure: %v", err)
	}
	if data.Name != "Asha Rao" {
		t.Errorf("name = %q, want Asha Rao", data.Name)
	}
	if data.Age != 34 {
		t.Errorf("age = %d, want 34", data.Age)
	}
	if data.OrganDonor == nil || !*data.OrganDonor {
		t.Error("organ donor status should be disclosed after opt-in")
	}
}

func TestGetDisclosureNarrowedPreferences(t *testing.T) {
	prefs := models.SharingPreferences{BloodGroup: true}
	f := newDisclosureFixture(t, prefs)

	data, err := f.disclosure.GetDisclosure(context.Background(), f.event.ID, utils.EmergencyResponderParty)
	if err != nil {
		t.Fatalf("GetDisclosure: %v", err)
	}
	if data.BloodGroup != "O-" {
		t.Error("blood group should be disclosed")
	}
	if data.Allergies != nil || data.ChronicConditions != nil || data.CurrentMedications != nil || data.EmergencyContacts != nil {
		t.Error("fields the user turned off must not be disclosed")
	}
}

func TestDisclosureNeverLeaksRestrictedData(t *testing.T) {
	prefs := models.DefaultSharingPreferences()
	prefs.Name = true
	prefs.Age = true
	prefs.OrganDonorStatus = true
	f := newDisclosureFixture(t, prefs)
	ctx := context.Background()

	// Tamper with the stored grant to smuggle a restricted field in.
	grant, err := f.grantRepo.GetByID(ctx, f.event.GrantID)
	if err != nil {
		t.Fatalf("grant lookup: %v", err)
	}
	grant.Fields = append(grant.Fields, models.DisclosureField(models.RestrictedInsuranceInfo))

	data, err := f.disclosure.GetDisclosure(ctx, f.event.ID, utils.EmergencyResponderParty)
	if err != nil {
		t.Fatalf("GetDisclosure: %v", err)
	}

	if data.UserID != f.profile.UserID {
		t.Errorf("user id mismatch")
	}
	if grant.Allows(models.DisclosureField(models.RestrictedInsuranceInfo)) {
		t.Error("tampered grant must not allow a restricted field")
	}
}

func TestGetDisclosureAfterResolve(t *testing.T) {
	f := newDisclosureFixture(t, models.DefaultSharingPreferences())
	ctx := context.Background()

	if _, err := f.sos.ResolveSOS(ctx, f.event.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	_, err := f.disclosure.GetDisclosure(ctx, f.event.ID, utils.EmergencyResponderParty)
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("got %v, want ErrAccessDenied after resolve", err)
	}
	if !f.auditRepo.hasAction(models.AuditActionAccessDenied) {
		t.Error("denied read should be audited")
	}
}

func TestGetDisclosureAfterExpiry(t *testing.T) {
	f := newDisclosureFixture(t, models.DefaultSharingPreferences())
	ctx := context.Background()

	grant, err := f.grantRepo.GetByID(ctx, f.event.GrantID)
	if err != nil {
		t.Fatalf("grant lookup: %v", err)
	}
	grant.ExpiresAt = time.Now().Add(-time.Second)

	_, err = f.disclosure.GetDisclosure(ctx, f.event.ID, utils.EmergencyResponderParty)
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("got %v, want ErrAccessDenied after expiry", err)
	}
}

func TestGetDisclosureUnknownEvent(t *testing.T) {
	f := newDisclosureFixture(t, models.DefaultSharingPreferences())

	_, err := f.disclosure.GetDisclosure(context.Background(), primitive.NewObjectID(), utils.EmergencyResponderParty)
	if err == nil {
		t.Error("expected error for unknown event")
	}
}
