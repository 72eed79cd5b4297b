// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/google/uuid"
	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/repository"
	testingutil "github.com/panelbridge/panelbridge/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewSurveyRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		survey, err := fixtures.CreateTestSurvey()
		require.NoError(t, err)

		t.Run("BySlug", func(t *testing.T) {
			found, err := repo.BySlug(ctx, survey.Slug)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, survey.ID, found.ID)
			assert.Equal(t, survey.Name, found.Name)
		})

		t.Run("BySlugNotFound", func(t *testing.T) {
			found, err := repo.BySlug(ctx, "no-such-survey")
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("SlugExists", func(t *testing.T) {
			exists, err := repo.SlugExists(ctx, survey.Slug)
			require.NoError(t, err)
			assert.True(t, exists)

			exists, err = repo.SlugExists(ctx, "no-such-survey")
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("IncrementTotalSessions", func(t *testing.T) {
			require.NoError(t, repo.IncrementTotalSessions(ctx, survey.ID))
			require.NoError(t, repo.IncrementTotalSessions(ctx, survey.ID))

			found, err := repo.ByID(ctx, survey.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, int64(2), found.TotalSessions)
		})

		t.Run("IncrementOutcome", func(t *testing.T) {
			require.NoError(t, repo.IncrementOutcome(ctx, survey.ID, models.SessionStatusComplete))
			require.NoError(t, repo.IncrementOutcome(ctx, survey.ID, models.SessionStatusQuotaFull))
			require.NoError(t, repo.IncrementOutcome(ctx, survey.ID, models.SessionStatusTerminate))
			require.NoError(t, repo.IncrementOutcome(ctx, survey.ID, models.SessionStatusTerminate))

			found, err := repo.ByID(ctx, survey.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, int64(1), found.CompletedSessions)
			assert.Equal(t, int64(1), found.QuotaFullSessions)
			assert.Equal(t, int64(2), found.TerminatedSessions)
		})

		t.Run("IncrementOutcomeRejectsUnknownStatus", func(t *testing.T) {
			err := repo.IncrementOutcome(ctx, survey.ID, "active")
			assert.Error(t, err)
		})

		t.Run("Delete", func(t *testing.T) {
			doomed, err := fixtures.CreateTestSurvey()
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, doomed.ID))

			found, err := repo.ByID(ctx, doomed.ID)
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVendorRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewVendorRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		survey, err := fixtures.CreateTestSurvey()
		require.NoError(t, err)
		vendor, err := fixtures.CreateTestVendor(survey.ID)
		require.NoError(t, err)

		t.Run("ByUUIDPreloadsSurvey", func(t *testing.T) {
			found, err := repo.ByUUID(ctx, vendor.UUID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, vendor.ID, found.ID)
			require.NotNil(t, found.Survey)
			assert.Equal(t, survey.Slug, found.Survey.Slug)
		})

		t.Run("ByUUIDNotFound", func(t *testing.T) {
			found, err := repo.ByUUID(ctx, uuid.New())
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("BySurveyAndSlug", func(t *testing.T) {
			found, err := repo.BySurveyAndSlug(ctx, survey.ID, vendor.Slug)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, vendor.ID, found.ID)
		})

		t.Run("BySurveyAndSlugScopedToSurvey", func(t *testing.T) {
			other, err := fixtures.CreateTestSurvey()
			require.NoError(t, err)

			found, err := repo.BySurveyAndSlug(ctx, other.ID, vendor.Slug)
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("SlugExistsInSurvey", func(t *testing.T) {
			exists, err := repo.SlugExistsInSurvey(ctx, survey.ID, vendor.Slug)
			require.NoError(t, err)
			assert.True(t, exists)

			exists, err = repo.SlugExistsInSurvey(ctx, survey.ID, "no-such-vendor")
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("ListBySurvey", func(t *testing.T) {
			second, err := fixtures.CreateTestVendor(survey.ID)
			require.NoError(t, err)

			vendors, err := repo.ListBySurvey(ctx, survey.ID)
			require.NoError(t, err)
			assert.Len(t, vendors, 2)

			require.NoError(t, repo.Delete(ctx, second.ID))
		})

		t.Run("IncrementOutcome", func(t *testing.T) {
			require.NoError(t, repo.IncrementOutcome(ctx, vendor.ID, models.SessionStatusComplete))

			found, err := repo.ByID(ctx, vendor.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, int64(1), found.CompletedSessions)
		})

		t.Run("DeleteBySurvey", func(t *testing.T) {
			doomed, err := fixtures.CreateTestSurvey()
			require.NoError(t, err)
			_, err = fixtures.CreateTestVendor(doomed.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestVendor(doomed.ID)
			require.NoError(t, err)

			require.NoError(t, repo.DeleteBySurvey(ctx, doomed.ID))

			vendors, err := repo.ListBySurvey(ctx, doomed.ID)
			require.NoError(t, err)
			assert.Empty(t, vendors)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSessionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewSessionRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		survey, err := fixtures.CreateTestSurvey()
		require.NoError(t, err)
		vendor, err := fixtures.CreateTestVendor(survey.ID)
		require.NoError(t, err)
		session, err := fixtures.CreateTestSession(survey.ID, vendor.ID)
		require.NoError(t, err)

		t.Run("ByExitTokenTrackingID", func(t *testing.T) {
			found, err := repo.ByExitToken(ctx, session.TrackingID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, session.ID, found.ID)
			require.NotNil(t, found.Survey)
			require.NotNil(t, found.Vendor)
		})

		t.Run("ByExitTokenSessionID", func(t *testing.T) {
			found, err := repo.ByExitToken(ctx, session.SessionID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, session.ID, found.ID)
		})

		t.Run("ByExitTokenNotFound", func(t *testing.T) {
			found, err := repo.ByExitToken(ctx, "TRACK_NOPE42")
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByExitTokenPreservesEntryParams", func(t *testing.T) {
			found, err := repo.ByExitToken(ctx, session.TrackingID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, session.EntryParams, found.EntryParams)
		})

		t.Run("ResolveActiveOneShot", func(t *testing.T) {
			resolved, err := repo.ResolveActive(ctx, session.ID, models.SessionStatusComplete)
			require.NoError(t, err)
			assert.True(t, resolved)

			found, err := repo.ByID(ctx, session.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, models.SessionStatusComplete, found.Status)
			assert.NotNil(t, found.ResolvedAt)
			require.NotNil(t, found.DurationMS)
			assert.GreaterOrEqual(t, *found.DurationMS, int64(0))

			// Second attempt matches no active row
			resolved, err = repo.ResolveActive(ctx, session.ID, models.SessionStatusTerminate)
			require.NoError(t, err)
			assert.False(t, resolved)

			found, err = repo.ByID(ctx, session.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, models.SessionStatusComplete, found.Status)
		})

		t.Run("DeleteByVendor", func(t *testing.T) {
			extra, err := fixtures.CreateTestVendor(survey.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestSession(survey.ID, extra.ID)
			require.NoError(t, err)

			require.NoError(t, repo.DeleteByVendor(ctx, extra.ID))

			count, err := repo.Count(ctx, models.SessionFilter{VendorID: &extra.ID})
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		t.Run("DeleteBySurvey", func(t *testing.T) {
			require.NoError(t, repo.DeleteBySurvey(ctx, survey.ID))

			count, err := repo.Count(ctx, models.SessionFilter{SurveyID: &survey.ID})
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAnalyticsEventRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAnalyticsEventRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		survey, err := fixtures.CreateTestSurvey()
		require.NoError(t, err)
		vendor, err := fixtures.CreateTestVendor(survey.ID)
		require.NoError(t, err)

		entry := &models.AnalyticsEvent{
			EventType: models.EventTypeEntry,
			SurveyID:  survey.ID,
			VendorID:  vendor.ID,
		}
		require.NoError(t, repo.Save(ctx, entry))
		assert.NotZero(t, entry.ID)

		t.Run("ByFilterEventType", func(t *testing.T) {
			eventType := models.EventTypeEntry
			events, err := repo.ByFilter(ctx, models.AnalyticsEventFilter{EventType: &eventType}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, events, 1)
		})

		t.Run("DeleteBySurvey", func(t *testing.T) {
			require.NoError(t, repo.DeleteBySurvey(ctx, survey.ID))

			count, err := repo.Count(ctx, models.AnalyticsEventFilter{SurveyID: &survey.ID})
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		return nil
	})
	require.NoError(t, err)
}
