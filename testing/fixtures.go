// Package testing provides test utilities and database setup for testing the panel routing system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestSurvey creates an active survey with default page messages
func (tf *TestFixtures) CreateTestSurvey() (*models.Survey, error) {
	n := rand.Intn(1000000)
	survey := &models.Survey{
		Name:      fmt.Sprintf("Test Survey %d", n),
		Slug:      fmt.Sprintf("test-survey-%d", n),
		ClientURL: "https://surveys.example.com/run?study=42",
		IsActive:  utils.ToPtr(true),
	}
	survey.ApplyDefaultMessages()

	if err := tf.DB.DB.Create(survey).Error; err != nil {
		return nil, fmt.Errorf("failed to create test survey: %w", err)
	}

	return survey, nil
}

// CreateTestVendor creates an active vendor attached to the given survey,
// with callback URLs derived from a base redirect URL
func (tf *TestFixtures) CreateTestVendor(surveyID uint) (*models.Vendor, error) {
	n := rand.Intn(1000000)
	vendor := &models.Vendor{
		SurveyID:             surveyID,
		Name:                 fmt.Sprintf("Test Vendor %d", n),
		Slug:                 fmt.Sprintf("test-vendor-%d", n),
		UUID:                 uuid.New(),
		EntryParameter:       utils.DefaultEntryParameter,
		ParameterPlaceholder: utils.DefaultParameterPlaceholder,
		BaseRedirectURL:      "https://panel.example.com/callback",
		IsActive:             utils.ToPtr(true),
	}
	vendor.RebuildCallbackURLs()

	if err := tf.DB.DB.Create(vendor).Error; err != nil {
		return nil, fmt.Errorf("failed to create test vendor: %w", err)
	}

	return vendor, nil
}

// CreateTestSession creates an active session linking a survey and vendor
func (tf *TestFixtures) CreateTestSession(surveyID, vendorID uint) (*models.Session, error) {
	n := rand.Intn(1000000)
	session := &models.Session{
		SessionID:    uuid.New().String(),
		TrackingID:   fmt.Sprintf("TRACK_%06d", n),
		SurveyID:     surveyID,
		VendorID:     vendorID,
		Status:       models.SessionStatusActive,
		RespondentID: fmt.Sprintf("resp-%d", n),
		EntryParams: models.QueryParams{
			{Key: utils.DefaultEntryParameter, Value: fmt.Sprintf("resp-%d", n)},
		},
		IPAddress: utils.ToPtr("203.0.113.10"),
		UserAgent: utils.ToPtr("test-agent/1.0"),
		EnteredAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}
