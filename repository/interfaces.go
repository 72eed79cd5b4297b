// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/panelbridge/panelbridge/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// SurveyRepository defines operations for surveys
type SurveyRepository interface {
	Repository[models.Survey, models.SurveyFilter]
	BySlug(ctx context.Context, slug string) (*models.Survey, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, survey *models.Survey) error
	Delete(ctx context.Context, id uint) error
	IncrementTotalSessions(ctx context.Context, id uint) error
	IncrementOutcome(ctx context.Context, id uint, status string) error
}

// VendorRepository defines operations for vendors
type VendorRepository interface {
	Repository[models.Vendor, models.VendorFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	BySurveyAndSlug(ctx context.Context, surveyID uint, slug string) (*models.Vendor, error)
	SlugExistsInSurvey(ctx context.Context, surveyID uint, slug string) (bool, error)
	ListBySurvey(ctx context.Context, surveyID uint) ([]*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, id uint) error
	DeleteBySurvey(ctx context.Context, surveyID uint) error
	IncrementTotalSessions(ctx context.Context, id uint) error
	IncrementOutcome(ctx context.Context, id uint, status string) error
}

// SessionRepository defines operations for respondent sessions
type SessionRepository interface {
	Repository[models.Session, models.SessionFilter]
	ByExitToken(ctx context.Context, token string) (*models.Session, error)
	ResolveActive(ctx context.Context, id uint, status string) (bool, error)
	DeleteBySurvey(ctx context.Context, surveyID uint) error
	DeleteByVendor(ctx context.Context, vendorID uint) error
}

// AnalyticsEventRepository defines operations for analytics events
type AnalyticsEventRepository interface {
	Repository[models.AnalyticsEvent, models.AnalyticsEventFilter]
	DeleteBySurvey(ctx context.Context, surveyID uint) error
}
