package tests

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	businessflow "github.com/panelbridge/panelbridge/business_flow"
	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/repository"
	testingutil "github.com/panelbridge/panelbridge/testing"
	"github.com/panelbridge/panelbridge/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://go.example.com"

func newSessionFlow(testDB *testingutil.TestDB) businessflow.SessionFlow {
	return businessflow.NewSessionFlow(
		repository.NewSurveyRepository(testDB.DB),
		repository.NewVendorRepository(testDB.DB),
		repository.NewSessionRepository(testDB.DB),
		repository.NewAnalyticsEventRepository(testDB.DB),
		testDB.DB,
		testBaseURL,
	)
}

func TestOpenSession(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newSessionFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		surveyRepo := repository.NewSurveyRepository(testDB.DB)
		vendorRepo := repository.NewVendorRepository(testDB.DB)
		sessionRepo := repository.NewSessionRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		survey, err := fixtures.CreateTestSurvey()
		require.NoError(t, err)
		vendor, err := fixtures.CreateTestVendor(survey.ID)
		require.NoError(t, err)

		metadata := businessflow.NewClientMetadata("203.0.113.7", "test-agent/1.0")

		t.Run("SlugEntry", func(t *testing.T) {
			entryParams := models.QueryParams{
				{Key: "user_id", Value: "resp-100"},
				{Key: "batch", Value: "7"},
			}
			addr := businessflow.SlugAddress{SurveySlug: survey.Slug, VendorSlug: vendor.Slug}

			result, err := flow.OpenSession(ctx, addr, entryParams, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, models.SessionStatusActive, result.Session.Status)
			assert.Equal(t, "resp-100", result.Session.RespondentID)
			assert.True(t, strings.HasPrefix(result.Session.TrackingID, utils.TrackingIDPrefix))

			// Entry params replay in arrival order, then the tracking token
			// and the exit link
			returnURL := testBaseURL + "/exit/" + survey.Slug + "?tracking_id=" + result.Session.TrackingID
			assert.Equal(t,
				survey.ClientURL+"&user_id=resp-100&batch=7&tracking_id="+result.Session.TrackingID+
					"&return_url="+url.QueryEscape(returnURL),
				result.RedirectURL)

			stored, err := sessionRepo.ByExitToken(ctx, result.Session.TrackingID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, entryParams, stored.EntryParams)
		})

		t.Run("LegacyEntry", func(t *testing.T) {
			entryParams := models.QueryParams{{Key: "user_id", Value: "resp-101"}}
			addr := businessflow.UUIDAddress{VendorUUID: vendor.UUID}

			result, err := flow.OpenSession(ctx, addr, entryParams, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)

			// Legacy links pipe the session id through the sid parameter and
			// return through /r/
			assert.Contains(t, result.RedirectURL, "sid="+result.Session.SessionID)
			assert.Contains(t, result.RedirectURL,
				"return_url="+url.QueryEscape(testBaseURL+"/r/"+result.Session.SessionID))
		})

		t.Run("IncrementsTotalCounters", func(t *testing.T) {
			freshSurvey, err := surveyRepo.ByID(ctx, survey.ID)
			require.NoError(t, err)
			freshVendor, err := vendorRepo.ByID(ctx, vendor.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), freshSurvey.TotalSessions)
			assert.Equal(t, int64(2), freshVendor.TotalSessions)
		})

		t.Run("UnknownVendor", func(t *testing.T) {
			addr := businessflow.SlugAddress{SurveySlug: survey.Slug, VendorSlug: "no-such-vendor"}
			result, err := flow.OpenSession(ctx, addr, nil, metadata)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsVendorNotFound(err))
		})

		t.Run("UnknownSurvey", func(t *testing.T) {
			addr := businessflow.SlugAddress{SurveySlug: "no-such-survey", VendorSlug: vendor.Slug}
			result, err := flow.OpenSession(ctx, addr, nil, metadata)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsVendorNotFound(err))
		})

		t.Run("UnknownUUID", func(t *testing.T) {
			addr := businessflow.UUIDAddress{VendorUUID: uuid.New()}
			result, err := flow.OpenSession(ctx, addr, nil, metadata)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsVendorNotFound(err))
		})

		t.Run("InactiveVendorWritesNothing", func(t *testing.T) {
			inactive, err := fixtures.CreateTestVendor(survey.ID)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(&models.Vendor{}).
				Where("id = ?", inactive.ID).
				Update("is_active", false).Error)

			addr := businessflow.SlugAddress{SurveySlug: survey.Slug, VendorSlug: inactive.Slug}
			result, err := flow.OpenSession(ctx, addr, nil, metadata)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsVendorInactive(err))

			count, err := sessionRepo.Count(ctx, models.SessionFilter{VendorID: &inactive.ID})
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		t.Run("InactiveSurvey", func(t *testing.T) {
			require.NoError(t, testDB.DB.Model(&models.Survey{}).
				Where("id = ?", survey.ID).
				Update("is_active", false).Error)
			defer testDB.DB.Model(&models.Survey{}).
				Where("id = ?", survey.ID).
				Update("is_active", true)

			addr := businessflow.SlugAddress{SurveySlug: survey.Slug, VendorSlug: vendor.Slug}
			result, err := flow.OpenSession(ctx, addr, nil, metadata)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsSurveyInactive(err))
		})

		t.Run("MalformedClientURL", func(t *testing.T) {
			require.NoError(t, testDB.DB.Model(&models.Survey{}).
				Where("id = ?", survey.ID).
				Update("client_url", "not a url").Error)
			defer testDB.DB.Model(&models.Survey{}).
				Where("id = ?", survey.ID).
				Update("client_url", survey.ClientURL)

			addr := businessflow.SlugAddress{SurveySlug: survey.Slug, VendorSlug: vendor.Slug}
			result, err := flow.OpenSession(ctx, addr, nil, metadata)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsSurveyURLInvalid(err))
			assert.True(t, businessflow.IsConfigurationError(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestResolveSession(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newSessionFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		surveyRepo := repository.NewSurveyRepository(testDB.DB)
		vendorRepo := repository.NewVendorRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		survey, err := fixtures.CreateTestSurvey()
		require.NoError(t, err)
		vendor, err := fixtures.CreateTestVendor(survey.ID)
		require.NoError(t, err)

		metadata := businessflow.NewClientMetadata("203.0.113.7", "test-agent/1.0")

		open := func(t *testing.T, respondentID string) *models.Session {
			t.Helper()
			entryParams := models.QueryParams{{Key: "user_id", Value: respondentID}}
			addr := businessflow.SlugAddress{SurveySlug: survey.Slug, VendorSlug: vendor.Slug}
			result, err := flow.OpenSession(ctx, addr, entryParams, metadata)
			require.NoError(t, err)
			return result.Session
		}

		t.Run("CompleteByTrackingID", func(t *testing.T) {
			session := open(t, "resp-200")

			result, err := flow.ResolveSession(ctx, survey.Slug, session.TrackingID, "1", nil, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, models.SessionStatusComplete, result.Outcome.Status)
			assert.False(t, result.Outcome.Security)
			assert.Equal(t,
				"https://panel.example.com/callback?status=1&user_id=resp-200",
				result.RedirectURL)
			assert.Equal(t, survey.CompletePageMessage, result.Message)
			assert.NotNil(t, result.Session.DurationMS)
		})

		t.Run("CompleteBySessionID", func(t *testing.T) {
			session := open(t, "resp-201")

			result, err := flow.ResolveSession(ctx, "", session.SessionID, "complete", nil, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.SessionStatusComplete, result.Outcome.Status)
		})

		t.Run("QuotaFull", func(t *testing.T) {
			session := open(t, "resp-202")

			result, err := flow.ResolveSession(ctx, survey.Slug, session.TrackingID, "3", nil, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.SessionStatusQuotaFull, result.Outcome.Status)
			assert.Contains(t, result.RedirectURL, "status=3")
		})

		t.Run("SecurityTermination", func(t *testing.T) {
			session := open(t, "resp-203")

			result, err := flow.ResolveSession(ctx, survey.Slug, session.TrackingID, "security_term", nil, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.SessionStatusTerminate, result.Outcome.Status)
			assert.True(t, result.Outcome.Security)
			assert.Contains(t, result.RedirectURL, "status=4")
			assert.Equal(t, survey.SecurityTermPageMessage, result.Message)
		})

		t.Run("GarbageStatusTerminates", func(t *testing.T) {
			session := open(t, "resp-204")

			result, err := flow.ResolveSession(ctx, survey.Slug, session.TrackingID, "definitely-not-a-status", nil, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.SessionStatusTerminate, result.Outcome.Status)
			assert.False(t, result.Outcome.Security)
		})

		t.Run("RespondentIDFallsBackToExitParams", func(t *testing.T) {
			session := open(t, "")

			exitParams := models.QueryParams{{Key: "user_id", Value: "resp-late"}}
			result, err := flow.ResolveSession(ctx, survey.Slug, session.TrackingID, "1", exitParams, metadata)
			require.NoError(t, err)
			assert.Contains(t, result.RedirectURL, "user_id=resp-late")
		})

		t.Run("DoubleResolveRejected", func(t *testing.T) {
			session := open(t, "resp-205")

			_, err := flow.ResolveSession(ctx, survey.Slug, session.TrackingID, "1", nil, metadata)
			require.NoError(t, err)

			result, err := flow.ResolveSession(ctx, survey.Slug, session.TrackingID, "2", nil, metadata)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsSessionAlreadyResolved(err))

			// The first outcome stands
			stored, lookupErr := repository.NewSessionRepository(testDB.DB).ByExitToken(ctx, session.TrackingID)
			require.NoError(t, lookupErr)
			assert.Equal(t, models.SessionStatusComplete, stored.Status)
		})

		t.Run("RespondentIDPassedVerbatim", func(t *testing.T) {
			session := open(t, "a b&c")

			result, err := flow.ResolveSession(ctx, survey.Slug, session.TrackingID, "1", nil, metadata)
			require.NoError(t, err)

			// The id reaches the vendor byte for byte, unescaped
			assert.Equal(t,
				"https://panel.example.com/callback?status=1&user_id=a b&c",
				result.RedirectURL)
		})

		t.Run("WrongSurveySlugResolvesNothing", func(t *testing.T) {
			session := open(t, "resp-207")

			result, err := flow.ResolveSession(ctx, "some-other-survey", session.TrackingID, "1", nil, metadata)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsSessionNotFound(err))

			// The session stays active for the correctly scoped link
			stored, lookupErr := repository.NewSessionRepository(testDB.DB).ByExitToken(ctx, session.TrackingID)
			require.NoError(t, lookupErr)
			assert.Equal(t, models.SessionStatusActive, stored.Status)
		})

		t.Run("UnknownToken", func(t *testing.T) {
			result, err := flow.ResolveSession(ctx, "", "TRACK_GHOST1", "1", nil, metadata)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsSessionNotFound(err))
			assert.True(t, businessflow.IsNotFoundLike(err))
		})

		t.Run("MalformedCallbackURL", func(t *testing.T) {
			session := open(t, "resp-206")
			require.NoError(t, testDB.DB.Model(&models.Vendor{}).
				Where("id = ?", vendor.ID).
				Update("complete_url", "::broken::").Error)
			defer testDB.DB.Model(&models.Vendor{}).
				Where("id = ?", vendor.ID).
				Update("complete_url", vendor.CompleteURL)

			result, err := flow.ResolveSession(ctx, survey.Slug, session.TrackingID, "1", nil, metadata)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsVendorURLInvalid(err))
			assert.True(t, businessflow.IsConfigurationError(err))

			// The session stays active and resolvable once the URL is fixed
			stored, lookupErr := repository.NewSessionRepository(testDB.DB).ByExitToken(ctx, session.TrackingID)
			require.NoError(t, lookupErr)
			assert.Equal(t, models.SessionStatusActive, stored.Status)
		})

		t.Run("CountersMatchOutcomes", func(t *testing.T) {
			freshSurvey, err := surveyRepo.ByID(ctx, survey.ID)
			require.NoError(t, err)
			freshVendor, err := vendorRepo.ByID(ctx, vendor.ID)
			require.NoError(t, err)

			resolved := freshSurvey.CompletedSessions + freshSurvey.QuotaFullSessions + freshSurvey.TerminatedSessions
			assert.LessOrEqual(t, resolved, freshSurvey.TotalSessions)
			assert.Equal(t, freshSurvey.CompletedSessions, freshVendor.CompletedSessions)
			assert.Equal(t, freshSurvey.QuotaFullSessions, freshVendor.QuotaFullSessions)
			assert.Equal(t, freshSurvey.TerminatedSessions, freshVendor.TerminatedSessions)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestResolveSessionConcurrent(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newSessionFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		surveyRepo := repository.NewSurveyRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		survey, err := fixtures.CreateTestSurvey()
		require.NoError(t, err)
		vendor, err := fixtures.CreateTestVendor(survey.ID)
		require.NoError(t, err)

		metadata := businessflow.NewClientMetadata("203.0.113.7", "test-agent/1.0")
		addr := businessflow.SlugAddress{SurveySlug: survey.Slug, VendorSlug: vendor.Slug}
		opened, err := flow.OpenSession(ctx, addr, models.QueryParams{{Key: "user_id", Value: "resp-300"}}, metadata)
		require.NoError(t, err)

		const workers = 8
		var wg sync.WaitGroup
		results := make(chan error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				status := fmt.Sprintf("%d", 1+n%4)
				_, err := flow.ResolveSession(ctx, survey.Slug, opened.Session.TrackingID, status, nil, metadata)
				results <- err
			}(i)
		}
		wg.Wait()
		close(results)

		var successes, duplicates int
		for err := range results {
			switch {
			case err == nil:
				successes++
			case businessflow.IsSessionAlreadyResolved(err):
				duplicates++
			default:
				t.Fatalf("unexpected resolve error: %v", err)
			}
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, workers-1, duplicates)

		// Exactly one outcome counted
		freshSurvey, err := surveyRepo.ByID(ctx, survey.ID)
		require.NoError(t, err)
		resolved := freshSurvey.CompletedSessions + freshSurvey.QuotaFullSessions + freshSurvey.TerminatedSessions
		assert.Equal(t, int64(1), resolved)

		return nil
	})
	require.NoError(t, err)
}
