package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Ask drives chat through one upload and question. The upload is skipped
// when file is already the active document.
func Ask(ctx context.Context, chat driving.ChatController, file domain.UploadFile, question string) (*domain.Entry, error) {
	if domain.IsBlank(question) {
		return nil, domain.ErrEmptyQuestion
	}

	if !isActive(chat.Session(), file) {
		if err := chat.SelectFile(ctx, file); err != nil {
			return nil, err
		}
	}

	chat.SetQuestion(question)
	entry, err := chat.Submit(ctx)
	if err != nil {
		return nil, fmt.Errorf("ask %s: %w", file.Name, err)
	}
	return entry, nil
}

func isActive(session *domain.DocumentSession, file domain.UploadFile) bool {
	return session != nil &&
		session.File.Name == file.Name &&
		bytes.Equal(session.File.Data, file.Data)
}
