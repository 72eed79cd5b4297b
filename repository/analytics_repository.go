// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/panelbridge/panelbridge/models"
	"gorm.io/gorm"
)

// AnalyticsEventRepositoryImpl implements AnalyticsEventRepository interface
type AnalyticsEventRepositoryImpl struct {
	*BaseRepository[models.AnalyticsEvent, models.AnalyticsEventFilter]
}

// NewAnalyticsEventRepository creates a new analytics event repository
func NewAnalyticsEventRepository(db *gorm.DB) AnalyticsEventRepository {
	return &AnalyticsEventRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AnalyticsEvent, models.AnalyticsEventFilter](db),
	}
}

// DeleteBySurvey removes all analytics events belonging to a survey
func (r *AnalyticsEventRepositoryImpl) DeleteBySurvey(ctx context.Context, surveyID uint) error {
	db := r.getDB(ctx)

	err := db.Where("survey_id = ?", surveyID).Delete(&models.AnalyticsEvent{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete analytics events by survey: %w", err)
	}

	return nil
}

// ByFilter retrieves analytics events matching the filter criteria
func (r *AnalyticsEventRepositoryImpl) ByFilter(ctx context.Context, filter models.AnalyticsEventFilter, orderBy string, limit, offset int) ([]*models.AnalyticsEvent, error) {
	db := r.getDB(ctx)

	var events []*models.AnalyticsEvent
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find analytics events by filter: %w", err)
	}

	return events, nil
}

// Count returns the number of analytics events matching the filter
func (r *AnalyticsEventRepositoryImpl) Count(ctx context.Context, filter models.AnalyticsEventFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.AnalyticsEvent{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count analytics events: %w", err)
	}

	return count, nil
}

// Exists checks if any analytics event matching the filter exists
func (r *AnalyticsEventRepositoryImpl) Exists(ctx context.Context, filter models.AnalyticsEventFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AnalyticsEventRepositoryImpl) applyFilter(db *gorm.DB, filter models.AnalyticsEventFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.EventType != nil {
		db = db.Where("event_type = ?", *filter.EventType)
	}
	if filter.SurveyID != nil {
		db = db.Where("survey_id = ?", *filter.SurveyID)
	}
	if filter.VendorID != nil {
		db = db.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.SessionID != nil {
		db = db.Where("session_id = ?", *filter.SessionID)
	}
	if filter.OccurredAfter != nil {
		db = db.Where("occurred_at >= ?", *filter.OccurredAfter)
	}
	if filter.OccurredBefore != nil {
		db = db.Where("occurred_at <= ?", *filter.OccurredBefore)
	}
	return db
}
