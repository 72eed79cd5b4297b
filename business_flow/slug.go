// Package businessflow contains the core business logic and use cases for panel routing workflows
package businessflow

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/panelbridge/panelbridge/repository"
	"github.com/panelbridge/panelbridge/utils"
)

// Slugify lowercases the name and collapses every run of non-alphanumeric
// characters into a single hyphen. Leading and trailing hyphens are
// stripped so slugs never start or end with a separator.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// GenerateSurveySlug mints a globally unique slug of the form
// <name>-<year>, appending -2, -3, ... on collision. The year keeps
// recurring studies with the same name addressable across waves.
func GenerateSurveySlug(ctx context.Context, surveyRepo repository.SurveyRepository, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "survey"
	}
	base = base + "-" + strconv.Itoa(utils.UTCNow().Year())

	slug := base
	for i := 2; ; i++ {
		taken, err := surveyRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check survey slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}

// GenerateVendorSlug mints a slug unique within the owning survey,
// appending -2, -3, ... on collision.
func GenerateVendorSlug(ctx context.Context, vendorRepo repository.VendorRepository, surveyID uint, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "vendor"
	}

	slug := base
	for i := 2; ; i++ {
		taken, err := vendorRepo.SlugExistsInSurvey(ctx, surveyID, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check vendor slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}

// NewTrackingID returns a fresh exit token of the form TRACK_XXXXXX.
// The six-character suffix is drawn from crypto/rand over A-Z0-9.
func NewTrackingID() (string, error) {
	suffix := make([]byte, utils.TrackingIDLength)
	charsetLen := big.NewInt(int64(len(utils.TrackingIDCharset)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate tracking id: %w", err)
		}
		suffix[i] = utils.TrackingIDCharset[n.Int64()]
	}
	return utils.TrackingIDPrefix + string(suffix), nil
}
