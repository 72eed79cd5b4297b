// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/panelbridge/panelbridge/models"
	"gorm.io/gorm"
)

// SurveyRepositoryImpl implements SurveyRepository interface
type SurveyRepositoryImpl struct {
	*BaseRepository[models.Survey, models.SurveyFilter]
}

// NewSurveyRepository creates a new survey repository
func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &SurveyRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Survey, models.SurveyFilter](db),
	}
}

// BySlug retrieves a survey by its slug
func (r *SurveyRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.Survey, error) {
	db := r.getDB(ctx)

	var survey models.Survey
	err := db.Where("slug = ?", slug).First(&survey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find survey by slug: %w", err)
	}

	return &survey, nil
}

// SlugExists checks whether a survey slug is already taken
func (r *SurveyRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	filter := models.SurveyFilter{Slug: &slug}
	return r.Exists(ctx, filter)
}

// Update persists changes to an existing survey
func (r *SurveyRepositoryImpl) Update(ctx context.Context, survey *models.Survey) error {
	db := r.getDB(ctx)

	err := db.Save(survey).Error
	if err != nil {
		return fmt.Errorf("failed to update survey: %w", err)
	}

	return nil
}

// Delete removes a survey
func (r *SurveyRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)

	err := db.Delete(&models.Survey{}, id).Error
	if err != nil {
		return fmt.Errorf("failed to delete survey: %w", err)
	}

	return nil
}

// IncrementTotalSessions atomically bumps the total session counter
func (r *SurveyRepositoryImpl) IncrementTotalSessions(ctx context.Context, id uint) error {
	db := r.getDB(ctx)

	err := db.Model(&models.Survey{}).Where("id = ?", id).
		Update("total_sessions", gorm.Expr("total_sessions + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment survey total sessions: %w", err)
	}

	return nil
}

// IncrementOutcome atomically bumps the counter for a terminal status
func (r *SurveyRepositoryImpl) IncrementOutcome(ctx context.Context, id uint, status string) error {
	column, err := outcomeColumn(status)
	if err != nil {
		return err
	}

	db := r.getDB(ctx)

	err = db.Model(&models.Survey{}).Where("id = ?", id).
		Update(column, gorm.Expr(column+" + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment survey outcome counter: %w", err)
	}

	return nil
}

// ByFilter retrieves surveys matching the filter criteria
func (r *SurveyRepositoryImpl) ByFilter(ctx context.Context, filter models.SurveyFilter, orderBy string, limit, offset int) ([]*models.Survey, error) {
	db := r.getDB(ctx)

	var surveys []*models.Survey
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

	err := query.Find(&surveys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find surveys by filter: %w", err)
	}

	return surveys, nil
}

// Count returns the number of surveys matching the filter
func (r *SurveyRepositoryImpl) Count(ctx context.Context, filter models.SurveyFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Survey{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count surveys: %w", err)
	}

	return count, nil
}

// Exists checks if any survey matching the filter exists
func (r *SurveyRepositoryImpl) Exists(ctx context.Context, filter models.SurveyFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SurveyRepositoryImpl) applyFilter(db *gorm.DB, filter models.SurveyFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Slug != nil {
		db = db.Where("slug = ?", *filter.Slug)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
