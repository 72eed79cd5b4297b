// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/panelbridge/panelbridge/models"
	"gorm.io/gorm"
)

// VendorRepositoryImpl implements VendorRepository interface
type VendorRepositoryImpl struct {
	*BaseRepository[models.Vendor, models.VendorFilter]
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &VendorRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Vendor, models.VendorFilter](db),
	}
}

// ByUUID retrieves a vendor by its opaque identifier
func (r *VendorRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	db := r.getDB(ctx)

	var vendor models.Vendor
	err := db.Where("uuid = ?", id).Preload("Survey").First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find vendor by uuid: %w", err)
	}

	return &vendor, nil
}

// BySurveyAndSlug retrieves a vendor by its survey-scoped slug
func (r *VendorRepositoryImpl) BySurveyAndSlug(ctx context.Context, surveyID uint, slug string) (*models.Vendor, error) {
	db := r.getDB(ctx)

	var vendor models.Vendor
	err := db.Where("survey_id = ? AND slug = ?", surveyID, slug).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find vendor by survey and slug: %w", err)
	}

	return &vendor, nil
}

// SlugExistsInSurvey checks whether a vendor slug is taken within a survey
func (r *VendorRepositoryImpl) SlugExistsInSurvey(ctx context.Context, surveyID uint, slug string) (bool, error) {
	filter := models.VendorFilter{SurveyID: &surveyID, Slug: &slug}
	return r.Exists(ctx, filter)
}

// ListBySurvey retrieves all vendors belonging to a survey
func (r *VendorRepositoryImpl) ListBySurvey(ctx context.Context, surveyID uint) ([]*models.Vendor, error) {
	filter := models.VendorFilter{SurveyID: &surveyID}
	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// Update persists changes to an existing vendor
func (r *VendorRepositoryImpl) Update(ctx context.Context, vendor *models.Vendor) error {
	db := r.getDB(ctx)

	err := db.Save(vendor).Error
	if err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}

	return nil
}

// Delete removes a vendor
func (r *VendorRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)

	err := db.Delete(&models.Vendor{}, id).Error
	if err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}

	return nil
}

// DeleteBySurvey removes all vendors belonging to a survey
func (r *VendorRepositoryImpl) DeleteBySurvey(ctx context.Context, surveyID uint) error {
	db := r.getDB(ctx)

	err := db.Where("survey_id = ?", surveyID).Delete(&models.Vendor{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete vendors by survey: %w", err)
	}

	return nil
}

// IncrementTotalSessions atomically bumps the total session counter
func (r *VendorRepositoryImpl) IncrementTotalSessions(ctx context.Context, id uint) error {
	db := r.getDB(ctx)

	err := db.Model(&models.Vendor{}).Where("id = ?", id).
		Update("total_sessions", gorm.Expr("total_sessions + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment vendor total sessions: %w", err)
	}

	return nil
}

// IncrementOutcome atomically bumps the counter for a terminal status
func (r *VendorRepositoryImpl) IncrementOutcome(ctx context.Context, id uint, status string) error {
	column, err := outcomeColumn(status)
	if err != nil {
		return err
	}

	db := r.getDB(ctx)

	err = db.Model(&models.Vendor{}).Where("id = ?", id).
		Update(column, gorm.Expr(column+" + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment vendor outcome counter: %w", err)
	}

	return nil
}

// ByFilter retrieves vendors matching the filter criteria
func (r *VendorRepositoryImpl) ByFilter(ctx context.Context, filter models.VendorFilter, orderBy string, limit, offset int) ([]*models.Vendor, error) {
	db := r.getDB(ctx)

	var vendors []*models.Vendor
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

	err := query.Find(&vendors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find vendors by filter: %w", err)
	}

	return vendors, nil
}

// Count returns the number of vendors matching the filter
func (r *VendorRepositoryImpl) Count(ctx context.Context, filter models.VendorFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Vendor{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count vendors: %w", err)
	}

	return count, nil
}

// Exists checks if any vendor matching the filter exists
func (r *VendorRepositoryImpl) Exists(ctx context.Context, filter models.VendorFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *VendorRepositoryImpl) applyFilter(db *gorm.DB, filter models.VendorFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.SurveyID != nil {
		db = db.Where("survey_id = ?", *filter.SurveyID)
	}
	if filter.Slug != nil {
		db = db.Where("slug = ?", *filter.Slug)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
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
