package driven

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// QAService is the remote document question-answering backend.
// Calls are single-shot: implementations never retry, cache or dedupe.
//
// Transport failures wrap domain.ErrTransport. Failed or malformed
// responses return *domain.ServerError.
type QAService interface {
	// SubmitDocument registers a document and returns its identifier.
	SubmitDocument(ctx context.Context, file domain.UploadFile) (*domain.UploadResult, error)

	// SubmitQuestion asks a question about a registered document.
	// The returned Sources are never nil.
	SubmitQuestion(ctx context.Context, question, documentID string) (*domain.Answer, error)
}
