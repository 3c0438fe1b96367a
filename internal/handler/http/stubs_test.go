package http

import (
	"context"

	"github.com/veridoc/signcore/internal/config"
	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/service"
	"github.com/veridoc/signcore/models"
)

const testAPIKey = "operator-secret"

// Closure-backed service stubs: tests set only the method they exercise,
// anything else panics on a nil closure and flags an unexpected call.

type stubPropagationService struct {
	propagate func(templateDocID, signerID, docInstanceID int64) ([]models.Field, error)
}

func (s *stubPropagationService) PropagateTemplate(_ context.Context, templateDocID, signerID, docInstanceID int64) ([]models.Field, error) {
	return s.propagate(templateDocID, signerID, docInstanceID)
}

type stubSigningService struct {
	submit func(signerID, fieldID int64, value string) (models.Field, error)
	list   func(signerID int64) ([]models.DocumentStatusResponse, error)
}

func (s *stubSigningService) SubmitFieldValue(_ context.Context, signerID, fieldID int64, value string) (models.Field, error) {
	return s.submit(signerID, fieldID, value)
}

func (s *stubSigningService) ListSignerDocuments(_ context.Context, signerID int64) ([]models.DocumentStatusResponse, error) {
	return s.list(signerID)
}

type stubCorrectionService struct {
	request  func(docInstanceID int64, fieldIDs []int64, reason string) (models.DocumentInstance, error)
	complete func(docInstanceID int64) (models.DocumentInstance, error)
}

func (s *stubCorrectionService) RequestCorrection(_ context.Context, docInstanceID int64, fieldIDs []int64, reason string) (models.DocumentInstance, error) {
	return s.request(docInstanceID, fieldIDs, reason)
}

func (s *stubCorrectionService) CompleteCorrections(_ context.Context, docInstanceID int64) (models.DocumentInstance, error) {
	return s.complete(docInstanceID)
}

type stubRenderService struct {
	render      func(docInstanceID int64) (models.DocumentInstance, error)
	renderBatch func(docInstanceIDs []int64) ([]models.BatchRenderResult, error)
}

func (s *stubRenderService) RenderDocument(_ context.Context, docInstanceID int64) (models.DocumentInstance, error) {
	return s.render(docInstanceID)
}

func (s *stubRenderService) RenderBatch(_ context.Context, docInstanceIDs []int64) ([]models.BatchRenderResult, error) {
	return s.renderBatch(docInstanceIDs)
}

type stubTokenService struct {
	issue    func(signerID int64, kind models.TokenKind) (models.AccessToken, error)
	validate func(tokenValue string) (int64, error)
}

func (s *stubTokenService) IssueToken(_ context.Context, signerID int64, kind models.TokenKind) (models.AccessToken, error) {
	return s.issue(signerID, kind)
}

func (s *stubTokenService) ValidateToken(_ context.Context, tokenValue string) (int64, error) {
	return s.validate(tokenValue)
}

// testServices bundles one stub per service; Services fields are interfaces,
// so the struct can be assembled directly without NewServices.
type testServices struct {
	propagation stubPropagationService
	signing     stubSigningService
	correction  stubCorrectionService
	render      stubRenderService
	tokens      stubTokenService
}

func newTestHandler(stubs *testServices) *Handler {
	if stubs == nil {
		stubs = &testServices{}
	}
	services := &service.Services{
		Propagation: &stubs.propagation,
		Signing:     &stubs.signing,
		Correction:  &stubs.correction,
		Render:      &stubs.render,
		Tokens:      &stubs.tokens,
	}
	return NewHandler(services, config.App{OperatorAPIKey: testAPIKey}, logger.Nop())
}
