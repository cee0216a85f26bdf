// Package testing provides test utilities and database setup for testing the queueing backend
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/drey/queueline/models"
	"github.com/drey/queueline/utils"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// SetQueueStatus writes the singleton gate row
func (tf *TestFixtures) SetQueueStatus(status string) error {
	var current models.QueueSystemStatus
	err := tf.DB.DB.Order("id DESC").First(&current).Error
	if err == nil {
		current.Status = status
		current.UpdatedAt = utils.UTCNow()
		return tf.DB.DB.Save(&current).Error
	}

	return tf.DB.DB.Create(&models.QueueSystemStatus{
		Status:    status,
		UpdatedAt: utils.UTCNow(),
	}).Error
}

// CreateTestTicket creates a queue ticket for the given date and number
func (tf *TestFixtures) CreateTestTicket(queueDate string, queueNumber int) (*models.QueueTicket, error) {
	date, err := time.Parse(utils.CivilDateLayout, queueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid queue date %s: %w", queueDate, err)
	}

	ticket := &models.QueueTicket{
		QueueNumber: queueNumber,
		Name:        fmt.Sprintf("Visitor %d", queueNumber),
		Purpose:     "Account inquiry",
		QueueType:   "regular",
		Date:        date,
		QueueDate:   queueDate,
		IsActive:    utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create test ticket: %w", err)
	}

	return ticket, nil
}

// CreateTestServing opens a serving session for the given ticket and teller
func (tf *TestFixtures) CreateTestServing(queueID uint, tellerNumber, status string) (*models.ServingSession, error) {
	session := &models.ServingSession{
		QueueID:      queueID,
		TellerNumber: tellerNumber,
		Status:       status,
		StartTime:    utils.UTCNow(),
		IsAnnounce:   utils.ToPtr(false),
	}
	if status == models.ServingStatusDone {
		session.EndTime = utils.UTCNowPtr()
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test serving session: %w", err)
	}

	return session, nil
}

// CreateTestUser creates a login account with a bcrypt-hashed password
func (tf *TestFixtures) CreateTestUser(username, password, userType string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	email := fmt.Sprintf("%s.%d@example.com", username, rand.Intn(10000000))
	user := &models.User{
		UserID:       utils.GenerateUserID(),
		Username:     username,
		Email:        &email,
		PasswordHash: string(hashed),
		UserType:     userType,
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestEmployee creates the employee record paired with a user account
func (tf *TestFixtures) CreateTestEmployee(user *models.User, name, role string) (*models.Employee, error) {
	joined := utils.UTCNow()
	employee := &models.Employee{
		UserID:     user.UserID,
		Name:       name,
		Email:      user.Email,
		Role:       role,
		IsActive:   utils.ToPtr(true),
		DateJoined: &joined,
	}

	if err := tf.DB.DB.Create(employee).Error; err != nil {
		return nil, fmt.Errorf("failed to create test employee: %w", err)
	}

	return employee, nil
}

// CreateTestVideoAd creates an ad row, active or not
func (tf *TestFixtures) CreateTestVideoAd(title string, active bool) (*models.VideoAd, error) {
	ad := &models.VideoAd{
		Title:    title,
		Video:    fmt.Sprintf("https://cdn.example.com/%s.mp4", title),
		IsList:   utils.ToPtr(false),
		Playlist: pq.StringArray{},
		IsActive: utils.ToPtr(active),
	}

	if err := tf.DB.DB.Create(ad).Error; err != nil {
		return nil, fmt.Errorf("failed to create test video ad: %w", err)
	}

	return ad, nil
}
