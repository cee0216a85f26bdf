// Package tests contains test cases for business flows and repositories to avoid circular imports
package tests

import (
	"fmt"
	"sync"
	"testing"

	"github.com/drey/queueline/app/dto"
	businessflow "github.com/drey/queueline/business_flow"
	"github.com/drey/queueline/models"
	testingutil "github.com/drey/queueline/testing"
	"github.com/drey/queueline/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingPublisher records broadcast events so tests can assert on them
// without a running hub.
type capturingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *capturingPublisher) Publish(event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	copy(out, p.events)
	return out
}

func branchToday(t *testing.T) string {
	t.Helper()
	now, err := utils.BranchNow()
	require.NoError(t, err)
	return utils.CivilDate(now)
}

func TestCreateQueue(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		newFlow := func(publisher *capturingPublisher) businessflow.QueueFlow {
			return businessflow.NewQueueFlow(
				testDB.DB,
				newQueueRepo(testDB),
				newStatusRepo(testDB),
				publisher,
			)
		}

		t.Run("RejectedWhenNoGateRowExists", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			flow := newFlow(&capturingPublisher{})

			resp, err := flow.CreateQueue(ctx, &dto.CreateQueueRequest{Name: "Juan", QueueType: "Payment"}, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsQueueClosed(err))

			var count int64
			require.NoError(t, testDB.DB.Model(&models.QueueTicket{}).Count(&count).Error)
			assert.Zero(t, count)
		})

		t.Run("RejectedWhenGateClosed", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			require.NoError(t, fixtures.SetQueueStatus(utils.QueueStatusClosed))
			publisher := &capturingPublisher{}
			flow := newFlow(publisher)

			resp, err := flow.CreateQueue(ctx, &dto.CreateQueueRequest{Name: "Juan", QueueType: "Payment"}, metadata)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsQueueClosed(err))
			assert.Empty(t, publisher.Events())

			// The gate rejection leaves no ticket behind
			var count int64
			require.NoError(t, testDB.DB.Model(&models.QueueTicket{}).Count(&count).Error)
			assert.Zero(t, count)
		})

		t.Run("SequentialNumbering", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			require.NoError(t, fixtures.SetQueueStatus(utils.QueueStatusOpen))
			publisher := &capturingPublisher{}
			flow := newFlow(publisher)

			for i := 1; i <= 3; i++ {
				resp, err := flow.CreateQueue(ctx, &dto.CreateQueueRequest{
					Name:      fmt.Sprintf("Visitor %d", i),
					QueueType: "Payment",
					Purpose:   "Pay water bill",
				}, metadata)
				require.NoError(t, err)
				assert.Equal(t, "success", resp.Status)
				assert.Equal(t, i, resp.QueueNumber)
			}

			events := publisher.Events()
			require.Len(t, events, 3)
			assert.Equal(t, "Queue:created", events[0])
		})

		t.Run("NumberingContinuesFromExistingMax", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			require.NoError(t, fixtures.SetQueueStatus(utils.QueueStatusOpen))
			_, err := fixtures.CreateTestTicket(branchToday(t), 7)
			require.NoError(t, err)
			flow := newFlow(&capturingPublisher{})

			resp, err := flow.CreateQueue(ctx, &dto.CreateQueueRequest{Name: "Maria", QueueType: "Inquiry"}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 8, resp.QueueNumber)
		})

		t.Run("NumberingIgnoresOtherDates", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			require.NoError(t, fixtures.SetQueueStatus(utils.QueueStatusOpen))
			// Yesterday's high number must not leak into today's sequence
			_, err := fixtures.CreateTestTicket("2020-01-01", 99)
			require.NoError(t, err)
			flow := newFlow(&capturingPublisher{})

			resp, err := flow.CreateQueue(ctx, &dto.CreateQueueRequest{Name: "Pedro", QueueType: "Payment"}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 1, resp.QueueNumber)
		})

		t.Run("RejectsBlankName", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			require.NoError(t, fixtures.SetQueueStatus(utils.QueueStatusOpen))
			flow := newFlow(&capturingPublisher{})

			resp, err := flow.CreateQueue(ctx, &dto.CreateQueueRequest{Name: "   ", QueueType: "Payment"}, metadata)
			assert.Nil(t, resp)
			require.Error(t, err)
			be, ok := err.(*businessflow.BusinessError)
			require.True(t, ok)
			assert.Equal(t, "INVALID_REQUEST", be.Code)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGetQueuesToday(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		flow := businessflow.NewQueueFlow(
			testDB.DB,
			newQueueRepo(testDB),
			newStatusRepo(testDB),
			&capturingPublisher{},
		)

		t.Run("EmptyListingWithNoGateRow", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			resp, err := flow.GetQueuesToday(ctx)
			require.NoError(t, err)
			assert.False(t, resp.IsError)
			assert.Equal(t, utils.QueueStatusUnavailable, resp.QueueStatus)
			assert.Equal(t, "No data", resp.Message)
			assert.Empty(t, resp.Data)
		})

		t.Run("ListingJoinsLatestServing", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			require.NoError(t, fixtures.SetQueueStatus(utils.QueueStatusOpen))
			today := branchToday(t)

			served, err := fixtures.CreateTestTicket(today, 1)
			require.NoError(t, err)
			inService, err := fixtures.CreateTestTicket(today, 2)
			require.NoError(t, err)
			waiting, err := fixtures.CreateTestTicket(today, 3)
			require.NoError(t, err)
			// A ticket from another day must not appear
			_, err = fixtures.CreateTestTicket("2020-01-01", 1)
			require.NoError(t, err)

			// Ticket 1 was called and finished, then called again and finished:
			// the listing must reflect the most recent session only.
			_, err = fixtures.CreateTestServing(served.ID, "1", models.ServingStatusDone)
			require.NoError(t, err)
			latest, err := fixtures.CreateTestServing(served.ID, "2", models.ServingStatusDone)
			require.NoError(t, err)
			_, err = fixtures.CreateTestServing(inService.ID, "3", models.ServingStatusPending)
			require.NoError(t, err)

			resp, err := flow.GetQueuesToday(ctx)
			require.NoError(t, err)
			assert.Equal(t, utils.QueueStatusOpen, resp.QueueStatus)
			assert.Equal(t, "Success", resp.Message)
			require.Len(t, resp.Data, 3)

			// Ordered by queue number ascending
			assert.Equal(t, 1, resp.Data[0].QueueNumber)
			assert.Equal(t, 2, resp.Data[1].QueueNumber)
			assert.Equal(t, 3, resp.Data[2].QueueNumber)

			assert.Equal(t, models.ServingStatusDone, resp.Data[0].ServingStatus)
			require.NotNil(t, resp.Data[0].ServingID)
			assert.Equal(t, latest.ID, *resp.Data[0].ServingID)
			require.NotNil(t, resp.Data[0].TellerNumber)
			assert.Equal(t, "2", *resp.Data[0].TellerNumber)

			assert.Equal(t, models.ServingStatusPending, resp.Data[1].ServingStatus)

			// Never-called tickets read WAITING with no serving fields
			assert.Equal(t, utils.ServingStatusWaiting, resp.Data[2].ServingStatus)
			assert.Nil(t, resp.Data[2].ServingID)
			assert.Nil(t, resp.Data[2].TellerNumber)
			_ = waiting
		})

		t.Run("ListingExcludesRetiredTickets", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			require.NoError(t, fixtures.SetQueueStatus(utils.QueueStatusOpen))
			today := branchToday(t)

			_, err := fixtures.CreateTestTicket(today, 1)
			require.NoError(t, err)
			retired, err := fixtures.CreateTestTicket(today, 2)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(&models.QueueTicket{}).
				Where("queue_id = ?", retired.ID).
				Update("is_active", false).Error)

			resp, err := flow.GetQueuesToday(ctx)
			require.NoError(t, err)
			require.Len(t, resp.Data, 1)
			assert.Equal(t, 1, resp.Data[0].QueueNumber)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUpdateQueueAnnounce(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		flow := businessflow.NewQueueFlow(
			testDB.DB,
			newQueueRepo(testDB),
			newStatusRepo(testDB),
			&capturingPublisher{},
		)

		t.Run("FlipsFlag", func(t *testing.T) {
			ticket, err := fixtures.CreateTestTicket(branchToday(t), 1)
			require.NoError(t, err)

			err = flow.UpdateQueueAnnounce(ctx, &dto.UpdateQueueAnnounceRequest{
				QueueID:         ticket.ID,
				IsQueueAnnounce: utils.ToPtr(true),
			})
			require.NoError(t, err)

			var reloaded models.QueueTicket
			require.NoError(t, testDB.DB.First(&reloaded, ticket.ID).Error)
			assert.True(t, utils.IsTrue(reloaded.IsQueueAnnounce))
		})

		t.Run("UnknownTicket", func(t *testing.T) {
			err := flow.UpdateQueueAnnounce(ctx, &dto.UpdateQueueAnnounceRequest{
				QueueID:         999999,
				IsQueueAnnounce: utils.ToPtr(true),
			})
			assert.True(t, businessflow.IsQueueNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestQueueStatusFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()

		flow := businessflow.NewQueueFlow(
			testDB.DB,
			newQueueRepo(testDB),
			newStatusRepo(testDB),
			&capturingPublisher{},
		)

		t.Run("UnavailableBeforeFirstSet", func(t *testing.T) {
			resp, err := flow.GetQueueStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, utils.QueueStatusUnavailable, resp.Gate)
		})

		t.Run("SetAndRead", func(t *testing.T) {
			resp, err := flow.SetQueueStatus(ctx, &dto.SetQueueStatusRequest{Status: utils.QueueStatusOpen})
			require.NoError(t, err)
			assert.Equal(t, utils.QueueStatusOpen, resp.Gate)

			resp, err = flow.SetQueueStatus(ctx, &dto.SetQueueStatusRequest{Status: utils.QueueStatusClosed})
			require.NoError(t, err)
			assert.Equal(t, utils.QueueStatusClosed, resp.Gate)

			read, err := flow.GetQueueStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, utils.QueueStatusClosed, read.Gate)

			// The gate stays a single row no matter how often it is flipped
			var count int64
			require.NoError(t, testDB.DB.Model(&models.QueueSystemStatus{}).Count(&count).Error)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestExportTodayReport(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		flow := businessflow.NewQueueFlow(
			testDB.DB,
			newQueueRepo(testDB),
			newStatusRepo(testDB),
			&capturingPublisher{},
		)

		today := branchToday(t)
		ticket, err := fixtures.CreateTestTicket(today, 1)
		require.NoError(t, err)
		_, err = fixtures.CreateTestServing(ticket.ID, "1", models.ServingStatusDone)
		require.NoError(t, err)

		buf, filename, err := flow.ExportTodayReport(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("queue-log-%s.xlsx", today), filename)
		assert.Greater(t, buf.Len(), 0)

		return nil
	})
	require.NoError(t, err)
}
