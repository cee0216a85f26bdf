package tests

import (
	"testing"

	"github.com/drey/queueline/app/dto"
	businessflow "github.com/drey/queueline/business_flow"
	"github.com/drey/queueline/models"
	testingutil "github.com/drey/queueline/testing"
	"github.com/drey/queueline/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartServing(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		newFlow := func(publisher *capturingPublisher) businessflow.ServingFlow {
			return businessflow.NewServingFlow(
				testDB.DB,
				newQueueRepo(testDB),
				newServingRepo(testDB),
				publisher,
			)
		}

		t.Run("UnknownTicket", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			flow := newFlow(&capturingPublisher{})

			resp, err := flow.StartServing(ctx, &dto.StartServingRequest{QueueID: 42, TellerNumber: "1"}, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsQueueNotFound(err))
		})

		t.Run("OpensPendingSession", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			ticket, err := fixtures.CreateTestTicket(branchToday(t), 1)
			require.NoError(t, err)
			publisher := &capturingPublisher{}
			flow := newFlow(publisher)

			resp, err := flow.StartServing(ctx, &dto.StartServingRequest{QueueID: ticket.ID, TellerNumber: "3"}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "success", resp.Status)
			require.NotNil(t, resp.Data)
			assert.Equal(t, ticket.QueueNumber, resp.Data.QueueNumber)
			assert.Equal(t, models.ServingStatusPending, resp.Data.ServingStatus)
			require.NotNil(t, resp.Data.TellerNumber)
			assert.Equal(t, "3", *resp.Data.TellerNumber)

			var session models.ServingSession
			require.NoError(t, testDB.DB.Where("queue_id = ?", ticket.ID).First(&session).Error)
			assert.Equal(t, models.ServingStatusPending, session.Status)
			assert.Nil(t, session.EndTime)

			assert.Contains(t, publisher.Events(), "Queue:created")
		})

		t.Run("ClosesTellersPreviousSession", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			today := branchToday(t)
			first, err := fixtures.CreateTestTicket(today, 1)
			require.NoError(t, err)
			second, err := fixtures.CreateTestTicket(today, 2)
			require.NoError(t, err)
			publisher := &capturingPublisher{}
			flow := newFlow(publisher)

			_, err = flow.StartServing(ctx, &dto.StartServingRequest{QueueID: first.ID, TellerNumber: "1"}, metadata)
			require.NoError(t, err)
			_, err = flow.StartServing(ctx, &dto.StartServingRequest{QueueID: second.ID, TellerNumber: "1"}, metadata)
			require.NoError(t, err)

			// The first session is closed with an end timestamp
			var prev models.ServingSession
			require.NoError(t, testDB.DB.Where("queue_id = ?", first.ID).First(&prev).Error)
			assert.Equal(t, models.ServingStatusDone, prev.Status)
			assert.NotNil(t, prev.EndTime)

			// Exactly one Pending session remains for the teller
			var pending int64
			require.NoError(t, testDB.DB.Model(&models.ServingSession{}).
				Where("teller_number = ? AND status = ?", "1", models.ServingStatusPending).
				Count(&pending).Error)
			assert.Equal(t, int64(1), pending)

			// Closing the previous ticket is announced as an update
			assert.Contains(t, publisher.Events(), "Queue:updated")
		})

		t.Run("DifferentTellersServeIndependently", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			today := branchToday(t)
			first, err := fixtures.CreateTestTicket(today, 1)
			require.NoError(t, err)
			second, err := fixtures.CreateTestTicket(today, 2)
			require.NoError(t, err)
			flow := newFlow(&capturingPublisher{})

			_, err = flow.StartServing(ctx, &dto.StartServingRequest{QueueID: first.ID, TellerNumber: "1"}, metadata)
			require.NoError(t, err)
			_, err = flow.StartServing(ctx, &dto.StartServingRequest{QueueID: second.ID, TellerNumber: "2"}, metadata)
			require.NoError(t, err)

			var pending int64
			require.NoError(t, testDB.DB.Model(&models.ServingSession{}).
				Where("status = ?", models.ServingStatusPending).
				Count(&pending).Error)
			assert.Equal(t, int64(2), pending)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestMarkServingDone(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		flow := businessflow.NewServingFlow(
			testDB.DB,
			newQueueRepo(testDB),
			newServingRepo(testDB),
			&capturingPublisher{},
		)

		t.Run("ClosesOpenSession", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			ticket, err := fixtures.CreateTestTicket(branchToday(t), 1)
			require.NoError(t, err)
			session, err := fixtures.CreateTestServing(ticket.ID, "1", models.ServingStatusPending)
			require.NoError(t, err)

			resp, err := flow.MarkServingDone(ctx, &dto.MarkServingDoneRequest{QueueID: ticket.ID, TellerNumber: "1"}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "success", resp.Status)

			var reloaded models.ServingSession
			require.NoError(t, testDB.DB.First(&reloaded, session.ID).Error)
			assert.Equal(t, models.ServingStatusDone, reloaded.Status)
			assert.NotNil(t, reloaded.EndTime)
		})

		t.Run("RepeatingFails", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			ticket, err := fixtures.CreateTestTicket(branchToday(t), 1)
			require.NoError(t, err)
			_, err = fixtures.CreateTestServing(ticket.ID, "1", models.ServingStatusPending)
			require.NoError(t, err)

			_, err = flow.MarkServingDone(ctx, &dto.MarkServingDoneRequest{QueueID: ticket.ID, TellerNumber: "1"}, metadata)
			require.NoError(t, err)

			resp, err := flow.MarkServingDone(ctx, &dto.MarkServingDoneRequest{QueueID: ticket.ID, TellerNumber: "1"}, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsNotServing(err))
		})

		t.Run("WrongTellerFails", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			ticket, err := fixtures.CreateTestTicket(branchToday(t), 1)
			require.NoError(t, err)
			_, err = fixtures.CreateTestServing(ticket.ID, "1", models.ServingStatusPending)
			require.NoError(t, err)

			resp, err := flow.MarkServingDone(ctx, &dto.MarkServingDoneRequest{QueueID: ticket.ID, TellerNumber: "2"}, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsNotServing(err))

			// The open session is untouched
			var session models.ServingSession
			require.NoError(t, testDB.DB.Where("queue_id = ?", ticket.ID).First(&session).Error)
			assert.Equal(t, models.ServingStatusPending, session.Status)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUpdateServingAnnounce(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		flow := businessflow.NewServingFlow(
			testDB.DB,
			newQueueRepo(testDB),
			newServingRepo(testDB),
			&capturingPublisher{},
		)

		t.Run("FlipsFlag", func(t *testing.T) {
			ticket, err := fixtures.CreateTestTicket(branchToday(t), 1)
			require.NoError(t, err)
			session, err := fixtures.CreateTestServing(ticket.ID, "1", models.ServingStatusPending)
			require.NoError(t, err)

			err = flow.UpdateServingAnnounce(ctx, &dto.UpdateServingAnnounceRequest{
				ServingID:  session.ID,
				IsAnnounce: utils.ToPtr(true),
			})
			require.NoError(t, err)

			var reloaded models.ServingSession
			require.NoError(t, testDB.DB.First(&reloaded, session.ID).Error)
			assert.True(t, utils.IsTrue(reloaded.IsAnnounce))
		})

		t.Run("UnknownSession", func(t *testing.T) {
			err := flow.UpdateServingAnnounce(ctx, &dto.UpdateServingAnnounceRequest{
				ServingID:  999999,
				IsAnnounce: utils.ToPtr(true),
			})
			assert.True(t, businessflow.IsServingNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
