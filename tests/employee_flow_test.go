package tests

import (
	"testing"

	"github.com/drey/queueline/app/dto"
	businessflow "github.com/drey/queueline/business_flow"
	"github.com/drey/queueline/models"
	"github.com/drey/queueline/repository"
	testingutil "github.com/drey/queueline/testing"
	"github.com/drey/queueline/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestEmployeeFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		publisher := &capturingPublisher{}
		flow := businessflow.NewEmployeeFlow(
			testDB.DB,
			repository.NewUserRepository(testDB.DB),
			repository.NewEmployeeRepository(testDB.DB),
			newTestTokenService(t),
			publisher,
		)

		t.Run("Create", func(t *testing.T) {
			email := "jperez@example.com"
			resp, err := flow.CreateEmployee(ctx, &dto.CreateEmployeeRequest{
				Username: "jperez",
				Password: "SecurePass123!",
				Email:    &email,
				UserType: "teller",
				Name:     "Jose Perez",
				Role:     "Teller",
			}, metadata)
			require.NoError(t, err)
			assert.False(t, resp.IsError)
			assert.NotEmpty(t, resp.AccessToken)
			require.NotNil(t, resp.Data)
			assert.Equal(t, "Jose Perez", resp.Data.Name)
			assert.Equal(t, "jperez", resp.Data.Username)

			assert.Contains(t, publisher.Events(), "employee:created")
		})

		t.Run("CreateDuplicateUsername", func(t *testing.T) {
			resp, err := flow.CreateEmployee(ctx, &dto.CreateEmployeeRequest{
				Username: "jperez",
				Password: "SecurePass123!",
				UserType: "teller",
				Name:     "Another Perez",
				Role:     "Teller",
			}, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsUsernameTaken(err))
		})

		t.Run("UpdatePartialFields", func(t *testing.T) {
			user, err := fixtures.CreateTestUser("mlopez", "SecurePass123!", "staff")
			require.NoError(t, err)
			_, err = fixtures.CreateTestEmployee(user, "Maria Lopez", "Staff")
			require.NoError(t, err)

			resp, err := flow.UpdateEmployee(ctx, &dto.UpdateEmployeeRequest{
				UserID: user.UserID,
				Role:   utils.ToPtr("Supervisor"),
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, resp.Data)
			assert.Equal(t, "Supervisor", resp.Data.Role)
			// Name was not supplied and stays put
			assert.Equal(t, "Maria Lopez", resp.Data.Name)

			assert.Contains(t, publisher.Events(), "employee:updated")
		})

		t.Run("UpdateRehashesPassword", func(t *testing.T) {
			user, err := fixtures.CreateTestUser("rcruz", "OldPass12345!", "teller")
			require.NoError(t, err)
			_, err = fixtures.CreateTestEmployee(user, "Ramon Cruz", "Teller")
			require.NoError(t, err)

			_, err = flow.UpdateEmployee(ctx, &dto.UpdateEmployeeRequest{
				UserID:   user.UserID,
				Password: utils.ToPtr("NewPass12345!"),
			}, metadata)
			require.NoError(t, err)

			var reloaded models.User
			require.NoError(t, testDB.DB.Where("user_id = ?", user.UserID).First(&reloaded).Error)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.PasswordHash), []byte("NewPass12345!")))
		})

		t.Run("UpdateUnknownUser", func(t *testing.T) {
			resp, err := flow.UpdateEmployee(ctx, &dto.UpdateEmployeeRequest{
				UserID: "USER-missing",
				Name:   utils.ToPtr("Ghost"),
			}, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsEmployeeNotFound(err))
		})

		t.Run("List", func(t *testing.T) {
			resp, err := flow.ListEmployees(ctx)
			require.NoError(t, err)
			assert.False(t, resp.IsError)
			assert.NotEmpty(t, resp.Data)
			for _, view := range resp.Data {
				assert.NotEmpty(t, view.UserID)
				assert.NotEmpty(t, view.Username)
			}

			assert.Contains(t, publisher.Events(), "employee:list")
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVideoAdFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		publisher := &capturingPublisher{}
		flow := businessflow.NewVideoAdFlow(
			testDB.DB,
			repository.NewVideoAdRepository(testDB.DB),
			publisher,
		)

		t.Run("CreateDeactivatesOthers", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			old, err := fixtures.CreateTestVideoAd("old-promo", true)
			require.NoError(t, err)

			resp, err := flow.CreateVideoAd(ctx, &dto.CreateVideoAdRequest{
				Title: "March Promo",
				Video: "https://cdn.example.com/march.mp4",
			}, metadata)
			require.NoError(t, err)
			assert.False(t, resp.IsError)
			require.NotNil(t, resp.Data)
			assert.True(t, utils.IsTrue(resp.Data.IsActive))

			var reloaded models.VideoAd
			require.NoError(t, testDB.DB.First(&reloaded, old.ID).Error)
			assert.False(t, utils.IsTrue(reloaded.IsActive))

			var active int64
			require.NoError(t, testDB.DB.Model(&models.VideoAd{}).
				Where("is_active = ?", true).Count(&active).Error)
			assert.Equal(t, int64(1), active)

			assert.Contains(t, publisher.Events(), "VideoAds:created")
		})

		t.Run("UpdateActivationSwitchesActiveAd", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			current, err := fixtures.CreateTestVideoAd("current", true)
			require.NoError(t, err)
			next, err := fixtures.CreateTestVideoAd("next", false)
			require.NoError(t, err)

			resp, err := flow.UpdateVideoAd(ctx, &dto.UpdateVideoAdRequest{
				ID:       next.ID,
				IsActive: utils.ToPtr(true),
			}, metadata)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(resp.Data.IsActive))

			var reloaded models.VideoAd
			require.NoError(t, testDB.DB.First(&reloaded, current.ID).Error)
			assert.False(t, utils.IsTrue(reloaded.IsActive))

			assert.Contains(t, publisher.Events(), "VideoAds:updated")
		})

		t.Run("UpdatePlaylist", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			ad, err := fixtures.CreateTestVideoAd("rotation", true)
			require.NoError(t, err)

			playlist := []string{
				"https://cdn.example.com/a.mp4",
				"https://cdn.example.com/b.mp4",
			}
			resp, err := flow.UpdateVideoAd(ctx, &dto.UpdateVideoAdRequest{
				ID:       ad.ID,
				IsList:   utils.ToPtr(true),
				Playlist: &playlist,
			}, metadata)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(resp.Data.IsList))
			assert.Len(t, []string(resp.Data.Playlist), 2)
		})

		t.Run("UpdateUnknownAd", func(t *testing.T) {
			resp, err := flow.UpdateVideoAd(ctx, &dto.UpdateVideoAdRequest{
				ID:    999999,
				Title: utils.ToPtr("Ghost"),
			}, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsVideoAdNotFound(err))
		})

		t.Run("ListEmpty", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			resp, err := flow.ListVideoAds(ctx)
			require.NoError(t, err)
			assert.False(t, resp.IsError)
			assert.Empty(t, resp.Data)
		})

		return nil
	})
	require.NoError(t, err)
}
