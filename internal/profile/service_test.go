package profile_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/model"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/profile"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/testutil"
)

func stringPointer(value string) *string {
	return &value
}

func newTestService(t *testing.T) (*profile.Service, testutil.SQLiteTestDatabase) {
	t.Helper()
	sqliteDatabase := testutil.NewSQLiteTestDatabase(t)
	database := sqliteDatabase.OpenDatabase(t)
	return profile.NewService(database, zap.NewNop()), sqliteDatabase
}

func TestNewServiceStartsWithEmptyDefaults(t *testing.T) {
	service, _ := newTestService(t)

	currentProfile := service.Current()
	require.Equal(t, model.OperatorProfileRecordID, currentProfile.ID)
	require.Empty(t, currentProfile.Name)
	require.Empty(t, currentProfile.SelectedAreaIDs)
}

func TestMergeUpdatePersistsValidFields(t *testing.T) {
	service, sqliteDatabase := newTestService(t)

	updatedProfile, fieldErrors, updateErr := service.MergeUpdate(profile.Update{
		Name:               stringPointer("Dra. Marina Santos"),
		RegistrationNumber: stringPointer("OAB/SP 123456"),
		Email:              stringPointer("marina@santosadv.com.br"),
		Phone:              stringPointer("(11) 98765-4321"),
		Address:            stringPointer("Av. Paulista, 1000 - São Paulo"),
	})
	require.NoError(t, updateErr)
	require.Empty(t, fieldErrors)
	require.Equal(t, "Dra. Marina Santos", updatedProfile.Name)
	require.Equal(t, "OAB/SP 123456", updatedProfile.RegistrationNumber)

	// Reload from storage through a fresh service: serialization round-trip.
	reloaded := profile.NewService(sqliteDatabase.OpenDatabase(t), zap.NewNop())
	restoredProfile := reloaded.Current()
	require.Equal(t, updatedProfile.Name, restoredProfile.Name)
	require.Equal(t, updatedProfile.RegistrationNumber, restoredProfile.RegistrationNumber)
	require.Equal(t, updatedProfile.Email, restoredProfile.Email)
	require.Equal(t, updatedProfile.Phone, restoredProfile.Phone)
	require.Equal(t, updatedProfile.Address, restoredProfile.Address)
	require.Equal(t, updatedProfile.SelectedAreaIDs, restoredProfile.SelectedAreaIDs)
}

func TestMergeUpdateRejectsInvalidFieldsAndKeepsValidOnes(t *testing.T) {
	service, _ := newTestService(t)

	updatedProfile, fieldErrors, updateErr := service.MergeUpdate(profile.Update{
		Name:  stringPointer("Dra. Marina Santos"),
		Email: stringPointer("not-an-email"),
	})
	require.NoError(t, updateErr)
	require.Contains(t, fieldErrors, profile.FieldEmail)
	require.Equal(t, "Dra. Marina Santos", updatedProfile.Name)
	require.Empty(t, updatedProfile.Email)
}

func TestMergeUpdateLeavesUntouchedFieldsAlone(t *testing.T) {
	service, _ := newTestService(t)

	_, _, updateErr := service.MergeUpdate(profile.Update{Name: stringPointer("Dra. Marina Santos")})
	require.NoError(t, updateErr)

	updatedProfile, fieldErrors, updateErr := service.MergeUpdate(profile.Update{Phone: stringPointer("ramal x4444")})
	require.NoError(t, updateErr)
	require.Contains(t, fieldErrors, profile.FieldPhone)
	require.Equal(t, "Dra. Marina Santos", updatedProfile.Name)
}

func TestValidateUpdateRegistrationPattern(t *testing.T) {
	for _, validValue := range []string{"OAB/SP 123456", "OAB/RJ 1234", "OAB/MG123456", ""} {
		fieldErrors := profile.ValidateUpdate(profile.Update{RegistrationNumber: stringPointer(validValue)})
		require.NotContains(t, fieldErrors, profile.FieldRegistrationNumber, "value %q", validValue)
	}
	for _, invalidValue := range []string{"123456", "OAB 123456", "OAB/sp 123456", "OAB/SP 12"} {
		fieldErrors := profile.ValidateUpdate(profile.Update{RegistrationNumber: stringPointer(invalidValue)})
		require.Contains(t, fieldErrors, profile.FieldRegistrationNumber, "value %q", invalidValue)
	}
}

func TestValidateUpdatePhoneCharacterClass(t *testing.T) {
	fieldErrors := profile.ValidateUpdate(profile.Update{Phone: stringPointer("(11) 98765-4321")})
	require.Empty(t, fieldErrors)

	fieldErrors = profile.ValidateUpdate(profile.Update{Phone: stringPointer("onze 98765-4321")})
	require.Contains(t, fieldErrors, profile.FieldPhone)
}

func TestToggleAreaRoundTripRestoresOriginalSelection(t *testing.T) {
	service, _ := newTestService(t)

	selected, updatedProfile, toggleErr := service.ToggleArea("civil")
	require.NoError(t, toggleErr)
	require.True(t, selected)
	require.Equal(t, model.StringList{"civil"}, updatedProfile.SelectedAreaIDs)

	selected, updatedProfile, toggleErr = service.ToggleArea("civil")
	require.NoError(t, toggleErr)
	require.False(t, selected)
	require.Empty(t, updatedProfile.SelectedAreaIDs)
}

func TestToggleAreaNeverAccumulatesDuplicates(t *testing.T) {
	service, _ := newTestService(t)

	for toggleCount := 0; toggleCount < 3; toggleCount++ {
		_, _, toggleErr := service.ToggleArea("trabalhista")
		require.NoError(t, toggleErr)
	}

	currentProfile := service.Current()
	require.Equal(t, model.StringList{"trabalhista"}, currentProfile.SelectedAreaIDs)
}

func TestSelectedAreasSkipsStaleIdentifiers(t *testing.T) {
	service, _ := newTestService(t)

	_, _, toggleErr := service.ToggleArea("civil-familia")
	require.NoError(t, toggleErr)
	_, _, toggleErr = service.ToggleArea("area-removida-do-catalogo")
	require.NoError(t, toggleErr)

	areas := service.SelectedAreas()
	require.Len(t, areas, 1)
	require.Equal(t, "civil-familia", areas[0].ID)
}

func TestCurrentReturnsACopy(t *testing.T) {
	service, _ := newTestService(t)

	_, _, toggleErr := service.ToggleArea("civil")
	require.NoError(t, toggleErr)

	snapshot := service.Current()
	snapshot.SelectedAreaIDs[0] = "mutated"
	require.Equal(t, model.StringList{"civil"}, service.Current().SelectedAreaIDs)
}
