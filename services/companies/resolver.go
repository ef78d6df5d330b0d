package companies

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/agnivade/levenshtein"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/logger"
	"github.com/gofleetadvisor/invoicestack/internal/models"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
)

// Edit distances 0..2 qualify for the fuzzy tier; 3 and above never match.
const fuzzyDistanceThreshold = 3

type companyResolverService struct {
	log      logger.Logger
	repo     interfaces.CompanyRepository
	snapshot *models.CompanySet
}

func NewCompanyResolverService(log logger.Logger, repo interfaces.CompanyRepository) interfaces.CompanyResolverService {
	return &companyResolverService{
		log:  log,
		repo: repo,
	}
}

// NewCompanyResolverServiceWithSnapshot wires a pre-built snapshot, used by
// tests and anywhere the reference store is not available.
func NewCompanyResolverServiceWithSnapshot(log logger.Logger, snapshot *models.CompanySet) interfaces.CompanyResolverService {
	return &companyResolverService{
		log:      log,
		snapshot: snapshot,
	}
}

// Init loads the reference snapshot. It is the only refresh point.
func (s *companyResolverService) Init(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "companyResolverService.Init")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if s.repo == nil {
		return errors.New("company repository not configured")
	}

	names, err := s.repo.ListNames(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to load company reference set")
	}

	s.snapshot = models.NewCompanySet(names)
	s.log.Infof("loaded %d reference companies", s.snapshot.Len())
	return nil
}

func (s *companyResolverService) CandidateFromMessage(ctx context.Context, message *models.Message) (string, bool) {
	span, _ := opentracing.StartSpanFromContext(ctx, "companyResolverService.CandidateFromMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	name := candidateFromPlainText(message.BodyText)
	if name == "" {
		name = candidateFromHTML(message.BodyHTML)
	}
	if name == "" {
		return "", false
	}

	return NormalizeCandidate(name), true
}

func (s *companyResolverService) Resolve(ctx context.Context, candidateKey string) (string, bool) {
	span, _ := opentracing.StartSpanFromContext(ctx, "companyResolverService.Resolve")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if s.snapshot == nil || candidateKey == "" {
		return "", false
	}

	// exact
	if s.snapshot.Contains(candidateKey) {
		return candidateKey, true
	}

	// hyphen-suffixed canonical names: the comma rule preserves the space
	// before a trailing comma, so legitimate reference keys can end in "-"
	if s.snapshot.Contains(candidateKey + "-") {
		return candidateKey + "-", true
	}

	// fuzzy: global minimum over the snapshot; keys iterate sorted, so the
	// lexicographically first key wins a distance tie
	bestKey := ""
	bestDistance := fuzzyDistanceThreshold
	for _, key := range s.snapshot.Keys() {
		distance := levenshtein.ComputeDistance(candidateKey, key)
		if distance < bestDistance {
			bestDistance = distance
			bestKey = key
		}
	}
	if bestKey != "" {
		s.log.Debugf("fuzzy matched %q to %q (distance %d)", candidateKey, bestKey, bestDistance)
		return bestKey, true
	}

	return "", false
}

// candidateFromPlainText takes the first line and applies the trailing-comma
// rule: drop exactly the comma, keeping any whitespace that precedes it.
func candidateFromPlainText(body string) string {
	if body == "" {
		return ""
	}
	firstLine := strings.TrimSpace(strings.SplitN(body, "\n", 2)[0])
	return dropTrailingComma(firstLine)
}

// candidateFromHTML falls back to the first <span> segment of the HTML body.
func candidateFromHTML(body string) string {
	if body == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	text := doc.Find("span").First().Text()
	text = strings.ReplaceAll(text, " ", " ") // &nbsp;
	text = strings.TrimSpace(text)
	return dropTrailingComma(text)
}

// dropTrailingComma removes a trailing comma only. Whitespace before the
// comma stays, which is why hyphen-suffixed candidate keys exist at all.
// Whitespace after the comma was already removed with the line trim.
func dropTrailingComma(name string) string {
	return strings.TrimSuffix(name, ",")
}

// NormalizeCandidate lowercases and hyphenates a free-text company name into
// candidate-key form.
func NormalizeCandidate(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// NormalizeReferenceName applies the stricter reference-side rules used when
// importing companies: candidate form plus trailing-hyphen strip and
// double-hyphen collapse.
func NormalizeReferenceName(name string) string {
	formatted := NormalizeCandidate(strings.TrimSpace(name))
	for strings.Contains(formatted, "--") {
		formatted = strings.ReplaceAll(formatted, "--", "-")
	}
	return strings.TrimRight(formatted, "-")
}
