// Package businessflow contains the core business logic and use cases for panel routing workflows
package businessflow

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/panelbridge/panelbridge/models"
	"github.com/panelbridge/panelbridge/repository"
	"github.com/redis/go-redis/v9"
)

// StatusPageContent is everything a rendered status page needs
type StatusPageContent struct {
	SurveyName string `json:"survey_name"`
	Title      string `json:"title"`
	Message    string `json:"message"`
}

// StatusPageFlow serves the public thank-you pages shown after a session
// resolves, or when a respondent lands on a status link directly
type StatusPageFlow interface {
	GetStatusPage(ctx context.Context, surveySlug, statusSegment string) (*StatusPageContent, error)
}

// StatusPageFlowImpl implements the status page business flow with a
// read-through redis cache. Page copy changes rarely and these pages take
// the full respondent traffic.
type StatusPageFlowImpl struct {
	surveyRepo repository.SurveyRepository
	rc         *redis.Client
	cacheTTL   time.Duration
}

// NewStatusPageFlow creates a new status page flow instance
func NewStatusPageFlow(surveyRepo repository.SurveyRepository, rc *redis.Client, cacheTTL time.Duration) StatusPageFlow {
	return &StatusPageFlowImpl{
		surveyRepo: surveyRepo,
		rc:         rc,
		cacheTTL:   cacheTTL,
	}
}

type cachedMessages struct {
	SurveyName   string `json:"survey_name"`
	Complete     string `json:"complete"`
	Terminate    string `json:"terminate"`
	QuotaFull    string `json:"quota_full"`
	SecurityTerm string `json:"security_term"`
}

func statusPageCacheKey(surveySlug string) string {
	return "statuspage:" + surveySlug
}

// GetStatusPage resolves the page copy for a survey and status segment.
// Inactive surveys still serve their pages; respondents finishing a
// just-closed survey should not hit a 404.
func (s *StatusPageFlowImpl) GetStatusPage(ctx context.Context, surveySlug, statusSegment string) (*StatusPageContent, error) {
	status, security, err := ParseStatusPage(statusSegment)
	if err != nil {
		return nil, err
	}

	msgs, err := s.loadMessages(ctx, surveySlug)
	if err != nil {
		return nil, err
	}

	content := &StatusPageContent{SurveyName: msgs.SurveyName}
	switch {
	case status == models.SessionStatusComplete:
		content.Title = "Survey Completed"
		content.Message = msgs.Complete
	case status == models.SessionStatusQuotaFull:
		content.Title = "Quota Full"
		content.Message = msgs.QuotaFull
	case security:
		content.Title = "Survey Terminated"
		content.Message = msgs.SecurityTerm
	default:
		content.Title = "Survey Terminated"
		content.Message = msgs.Terminate
	}

	return content, nil
}

func (s *StatusPageFlowImpl) loadMessages(ctx context.Context, surveySlug string) (*cachedMessages, error) {
	key := statusPageCacheKey(surveySlug)

	if s.rc != nil {
		if bs, err := s.rc.Get(ctx, key).Bytes(); err == nil && len(bs) > 0 {
			var msgs cachedMessages
			if err := json.Unmarshal(bs, &msgs); err == nil {
				return &msgs, nil
			}
		}
	}

	survey, err := s.surveyRepo.BySlug(ctx, surveySlug)
	if err != nil {
		return nil, NewBusinessError("SURVEY_LOOKUP_FAILED", "Failed to look up survey", err)
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}

	msgs := &cachedMessages{
		SurveyName:   survey.Name,
		Complete:     survey.CompletePageMessage,
		Terminate:    survey.TerminatePageMessage,
		QuotaFull:    survey.QuotaFullPageMessage,
		SecurityTerm: survey.SecurityTermPageMessage,
	}

	if s.rc != nil {
		if bs, err := json.Marshal(msgs); err == nil {
			if err := s.rc.Set(ctx, key, bs, s.cacheTTL).Err(); err != nil {
				log.Printf("failed to cache status page messages for %s: %v", surveySlug, err)
			}
		}
	}

	return msgs, nil
}
