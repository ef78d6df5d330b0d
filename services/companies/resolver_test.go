package companies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofleetadvisor/invoicestack/internal/logger"
	"github.com/gofleetadvisor/invoicestack/internal/models"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func newResolver(names ...string) *companyResolverService {
	svc := NewCompanyResolverServiceWithSnapshot(getLogger(), models.NewCompanySet(names))
	return svc.(*companyResolverService)
}

func TestNormalizeCandidate(t *testing.T) {
	assert.Equal(t, "acme-corp", NormalizeCandidate("Acme Corp"))
	assert.Equal(t, "acme-corp-", NormalizeCandidate("Acme Corp "))
	assert.Equal(t, "acme--corp", NormalizeCandidate("Acme  Corp"))
}

func TestNormalizeReferenceName(t *testing.T) {
	assert.Equal(t, "acme-corp", NormalizeReferenceName("  Acme  Corp  "))
	assert.Equal(t, "acme-corp", NormalizeReferenceName("Acme Corp-"))
	assert.Equal(t, "", NormalizeReferenceName("   "))
}

func TestCandidateFromMessage_PlainTextFirstLine(t *testing.T) {
	// Arrange
	svc := newResolver()
	message := &models.Message{
		BodyText: "Acme Corp,\nInvoice attached, thanks!",
	}

	// Act
	candidate, ok := svc.CandidateFromMessage(context.Background(), message)

	// Assert
	require.True(t, ok)
	assert.Equal(t, "acme-corp", candidate)
}

func TestCandidateFromMessage_CommaAfterSpaceKeepsHyphen(t *testing.T) {
	// The trailing-comma rule drops only the comma; a space before it
	// survives and becomes a trailing hyphen in the candidate key.
	svc := newResolver()
	message := &models.Message{
		BodyText: "Acme Corp ,\nrest of body",
	}

	candidate, ok := svc.CandidateFromMessage(context.Background(), message)

	require.True(t, ok)
	assert.Equal(t, "acme-corp-", candidate)
}

func TestCandidateFromMessage_HTMLSpanFallback(t *testing.T) {
	svc := newResolver()
	message := &models.Message{
		BodyHTML: "<html><body><div><span>Acme&nbsp;Corp,</span><span>second</span></div></body></html>",
	}

	candidate, ok := svc.CandidateFromMessage(context.Background(), message)

	require.True(t, ok)
	assert.Equal(t, "acme-corp", candidate)
}

func TestCandidateFromMessage_NoBody(t *testing.T) {
	svc := newResolver()

	_, ok := svc.CandidateFromMessage(context.Background(), &models.Message{})

	assert.False(t, ok)
}

func TestResolve_Exact(t *testing.T) {
	svc := newResolver("acme-corp", "beta-logistics")

	resolved, ok := svc.Resolve(context.Background(), "acme-corp")

	require.True(t, ok)
	assert.Equal(t, "acme-corp", resolved)
}

func TestResolve_HyphenSuffixTier(t *testing.T) {
	svc := newResolver("acme-corp-")

	resolved, ok := svc.Resolve(context.Background(), "acme-corp")

	require.True(t, ok)
	assert.Equal(t, "acme-corp-", resolved)
}

func TestResolve_FuzzyWithinDistanceTwo(t *testing.T) {
	svc := newResolver("acme-corp")

	// one deletion and one substitution away
	resolved, ok := svc.Resolve(context.Background(), "acma-corp")
	require.True(t, ok)
	assert.Equal(t, "acme-corp", resolved)

	resolved, ok = svc.Resolve(context.Background(), "acme-corpse")
	require.True(t, ok)
	assert.Equal(t, "acme-corp", resolved)
}

func TestResolve_FuzzyRejectsDistanceThree(t *testing.T) {
	svc := newResolver("acme-corp")

	_, ok := svc.Resolve(context.Background(), "acma-corpse")

	assert.False(t, ok)
}

func TestResolve_FuzzyTieBreaksLexicographically(t *testing.T) {
	// both keys are distance 1 from the candidate
	svc := newResolver("acme-corpa", "acme-corpb")

	resolved, ok := svc.Resolve(context.Background(), "acme-corp")

	require.True(t, ok)
	assert.Equal(t, "acme-corpa", resolved)
}

func TestResolve_EmptySnapshot(t *testing.T) {
	svc := newResolver()

	_, ok := svc.Resolve(context.Background(), "acme-corp")

	assert.False(t, ok)
}
