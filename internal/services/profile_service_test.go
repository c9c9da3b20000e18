package services

import (
	"context"
	"errors"
	"testing"

	"lifeline/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProfileService(t *testing.T) (ProfileService, *fakeProfileRepo, *fakeAuditRepo) {
	t.Helper()
	log := testLogger(t)
	profileRepo := newFakeProfileRepo()
	auditRepo := &fakeAuditRepo{}
	return NewProfileService(profileRepo, NewAuditService(auditRepo, log), log), profileRepo, auditRepo
}

func TestGetProfileCreatesDefaults(t *testing.T) {
	service, repo, _ := newProfileService(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	profile, err := service.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Sharing != models.DefaultSharingPreferences() {
		t.Error("first access should install default sharing preferences")
	}
	if !profile.AutoNotifyContacts {
		t.Error("auto notify defaults to on")
	}
	if _, ok := repo.profiles[userID]; !ok {
		t.Error("profile should be persisted on first access")
	}
}

func TestUpdateProfile(t *testing.T) {
	service, _, auditRepo := newProfileService(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	name := "Asha Rao"
	age := 34
	blood := "O-"
	profile, err := service.UpdateProfile(ctx, userID, &models.EmergencyProfileUpdate{
		Name:       &name,
		Age:        &age,
		BloodGroup: &blood,
		EmergencyContacts: []models.EmergencyContact{
			{Name: "Ravi", Phone: "+91 98123 45678", Relationship: "spouse"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if profile.Name != name || profile.Age != age || profile.BloodGroup != blood {
		t.Error("updated fields not applied")
	}
	if !auditRepo.hasAction(models.AuditActionUpdate) {
		t.Error("profile update should be audited")
	}

	// Partial update leaves everything else alone.
	newAge := 35
	profile, err = service.UpdateProfile(ctx, userID, &models.EmergencyProfileUpdate{Age: &newAge})
	if err != nil {
		t.Fatalf("second UpdateProfile: %v", err)
	}
	if profile.Name != name {
		t.Error("name should survive a partial update")
	}
	if profile.Age != newAge {
		t.Errorf("age = %d, want %d", profile.Age, newAge)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	service, _, _ := newProfileService(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	t.Run("bad contact phone", func(t *testing.T) {
		_, err := service.UpdateProfile(ctx, userID, &models.EmergencyProfileUpdate{
			EmergencyContacts: []models.EmergencyContact{{Name: "Ravi", Phone: "not-a-number"}},
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})

	t.Run("age out of range", func(t *testing.T) {
		age := 200
		_, err := service.UpdateProfile(ctx, userID, &models.EmergencyProfileUpdate{Age: &age})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})
}

func TestUpdateSharingPreferences(t *testing.T) {
	service, _, _ := newProfileService(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	sharing := models.SharingPreferences{BloodGroup: true, Name: true}
	profile, err := service.UpdateProfile(ctx, userID, &models.EmergencyProfileUpdate{Sharing: &sharing})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if profile.Sharing != sharing {
		t.Error("sharing preferences not applied")
	}

	fields := profile.Sharing.GrantedFields()
	want := map[models.DisclosureField]bool{
		models.FieldLocation:   true,
		models.FieldBloodGroup: true,
		models.FieldName:       true,
	}
	if len(fields) != len(want) {
		t.Fatalf("granted fields = %v", fields)
	}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected granted field %s", f)
		}
	}
}
