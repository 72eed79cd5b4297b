// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/utils"
	"gorm.io/gorm"
)

// SessionRepositoryImpl implements SessionRepository interface
type SessionRepositoryImpl struct {
	*BaseRepository[models.Session, models.SessionFilter]
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &SessionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Session, models.SessionFilter](db),
	}
}

// ByExitToken retrieves a session by either of its exit tokens. Slug
// generation links carry the tracking id, legacy links carry the session
// id; both address the same row.
func (r *SessionRepositoryImpl) ByExitToken(ctx context.Context, token string) (*models.Session, error) {
	db := r.getDB(ctx)

	var session models.Session
	err := db.Where("tracking_id = ? OR session_id = ?", token, token).
		Preload("Survey").
		Preload("Vendor").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by exit token: %w", err)
	}

	return &session, nil
}

// ResolveActive transitions a session from active to a terminal status.
// The WHERE clause guards against concurrent resolution: only the first
// caller observes an affected row, every later caller gets false. The
// duration derives from entered_at in the same statement.
func (r *SessionRepositoryImpl) ResolveActive(ctx context.Context, id uint, status string) (bool, error) {
	db := r.getDB(ctx)

	now := utils.UTCNow()
	result := db.Model(&models.Session{}).
		Where("id = ? AND status = ?", id, models.SessionStatusActive).
		Updates(map[string]any{
			"status":      status,
			"resolved_at": now,
			"duration_ms": gorm.Expr("CAST(EXTRACT(EPOCH FROM (?::timestamp - entered_at)) * 1000 AS BIGINT)", now),
			"updated_at":  now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to resolve session: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// DeleteBySurvey removes all sessions belonging to a survey
func (r *SessionRepositoryImpl) DeleteBySurvey(ctx context.Context, surveyID uint) error {
	db := r.getDB(ctx)

	err := db.Where("survey_id = ?", surveyID).Delete(&models.Session{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete sessions by survey: %w", err)
	}

	return nil
}

// DeleteByVendor removes all sessions belonging to a vendor
func (r *SessionRepositoryImpl) DeleteByVendor(ctx context.Context, vendorID uint) error {
	db := r.getDB(ctx)

	err := db.Where("vendor_id = ?", vendorID).Delete(&models.Session{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete sessions by vendor: %w", err)
	}

	return nil
}

// ByFilter retrieves sessions matching the filter criteria
func (r *SessionRepositoryImpl) ByFilter(ctx context.Context, filter models.SessionFilter, orderBy string, limit, offset int) ([]*models.Session, error) {
	db := r.getDB(ctx)

	var sessions []*models.Session
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

	query = query.Preload("Survey").Preload("Vendor")

	err := query.Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions by filter: %w", err)
	}

	return sessions, nil
}

// Count returns the number of sessions matching the filter
func (r *SessionRepositoryImpl) Count(ctx context.Context, filter models.SessionFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Session{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}

// Exists checks if any session matching the filter exists
func (r *SessionRepositoryImpl) Exists(ctx context.Context, filter models.SessionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SessionRepositoryImpl) applyFilter(db *gorm.DB, filter models.SessionFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.SessionID != nil {
		db = db.Where("session_id = ?", *filter.SessionID)
	}
	if filter.TrackingID != nil {
		db = db.Where("tracking_id = ?", *filter.TrackingID)
	}
	if filter.SurveyID != nil {
		db = db.Where("survey_id = ?", *filter.SurveyID)
	}
	if filter.VendorID != nil {
		db = db.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.EnteredAfter != nil {
		db = db.Where("entered_at >= ?", *filter.EnteredAfter)
	}
	if filter.EnteredBefore != nil {
		db = db.Where("entered_at <= ?", *filter.EnteredBefore)
	}
	return db
}
