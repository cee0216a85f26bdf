package tests

import (
	"testing"
	"time"

	"github.com/drey/queueline/app/dto"
	"github.com/drey/queueline/app/services"
	businessflow "github.com/drey/queueline/business_flow"
	"github.com/drey/queueline/models"
	"github.com/drey/queueline/repository"
	testingutil "github.com/drey/queueline/testing"
	"github.com/drey/queueline/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) services.TokenService {
	t.Helper()
	svc, err := services.NewTokenService(
		24*time.Hour,
		"queueline-test",
		"queueline-test-api",
		"test-secret-key-that-is-long-enough-0123456789",
	)
	require.NoError(t, err)
	return svc
}

func TestLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		tokenService := newTestTokenService(t)
		flow := businessflow.NewAuthFlow(
			testDB.DB,
			repository.NewUserRepository(testDB.DB),
			repository.NewEmployeeRepository(testDB.DB),
			tokenService,
		)

		t.Run("Success", func(t *testing.T) {
			user, err := fixtures.CreateTestUser("jdoe", "SecurePass123!", "teller")
			require.NoError(t, err)
			_, err = fixtures.CreateTestEmployee(user, "Jane Doe", "Teller")
			require.NoError(t, err)

			resp, err := flow.Login(ctx, &dto.LoginRequest{Username: "jdoe", Password: "SecurePass123!"}, metadata)
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.NotEmpty(t, resp.Data.AccessToken)
			assert.Equal(t, "Bearer", resp.Data.TokenType)
			assert.Equal(t, user.UserID, resp.Data.User.UserID)
			assert.Equal(t, "Jane Doe", resp.Data.User.Name)

			// The issued token round-trips through validation
			claims, err := tokenService.ValidateToken(resp.Data.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.UserID, claims.UserID)
			assert.Equal(t, "teller", claims.UserType)
		})

		t.Run("UnknownUser", func(t *testing.T) {
			resp, err := flow.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "whatever1!"}, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		t.Run("WrongPassword", func(t *testing.T) {
			_, err := fixtures.CreateTestUser("psmith", "SecurePass123!", "teller")
			require.NoError(t, err)

			resp, err := flow.Login(ctx, &dto.LoginRequest{Username: "psmith", Password: "WrongPass123!"}, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("LoginWithoutEmployeeRecord", func(t *testing.T) {
			// An account provisioned without an HR record can still log in
			_, err := fixtures.CreateTestUser("machine", "SecurePass123!", "admin")
			require.NoError(t, err)

			resp, err := flow.Login(ctx, &dto.LoginRequest{Username: "machine", Password: "SecurePass123!"}, metadata)
			require.NoError(t, err)
			assert.Empty(t, resp.Data.User.Name)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSignup(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		flow := businessflow.NewAuthFlow(
			testDB.DB,
			repository.NewUserRepository(testDB.DB),
			repository.NewEmployeeRepository(testDB.DB),
			newTestTokenService(t),
		)

		t.Run("CreatesAccountAndEmployee", func(t *testing.T) {
			email := "anew@example.com"
			resp, err := flow.Signup(ctx, &dto.SignupRequest{
				Username: "anew",
				Password: "SecurePass123!",
				Email:    &email,
				UserType: "teller",
				Name:     "Ana Nueva",
				Role:     "Teller",
			}, metadata)
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.NotEmpty(t, resp.Data.AccessToken)
			assert.NotEmpty(t, resp.Data.User.UserID)

			var user models.User
			require.NoError(t, testDB.DB.Where("username = ?", "anew").First(&user).Error)
			// Password is stored hashed, never verbatim
			assert.NotEqual(t, "SecurePass123!", user.PasswordHash)

			var employee models.Employee
			require.NoError(t, testDB.DB.Where("user_id = ?", user.UserID).First(&employee).Error)
			assert.Equal(t, "Ana Nueva", employee.Name)
			assert.True(t, utils.IsTrue(employee.IsActive))
		})

		t.Run("DuplicateUsernameRollsBack", func(t *testing.T) {
			req := &dto.SignupRequest{
				Username: "twin",
				Password: "SecurePass123!",
				UserType: "staff",
				Name:     "First Twin",
				Role:     "Staff",
			}
			_, err := flow.Signup(ctx, req, metadata)
			require.NoError(t, err)

			req.Name = "Second Twin"
			resp, err := flow.Signup(ctx, req, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsUsernameTaken(err))

			// The failed signup leaves no partial employee record
			var count int64
			require.NoError(t, testDB.DB.Model(&models.Employee{}).
				Where("name = ?", "Second Twin").Count(&count).Error)
			assert.Zero(t, count)
		})

		return nil
	})
	require.NoError(t, err)
}
