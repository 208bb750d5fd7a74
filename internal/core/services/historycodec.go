package services

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// encodeHistory serialises a log in its durable form.
func encodeHistory(entries []domain.Entry) (string, error) {
	if entries == nil {
		entries = []domain.Entry{}
	}
	for i := range entries {
		if entries[i].Sources == nil {
			entries[i].Sources = []string{}
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	return string(data), nil
}

// decodeHistory parses a stored log. Malformed JSON is passed through
// jsonrepair once; repaired reports whether that was needed. Values that
// still do not decode return domain.ErrCorruptHistory.
func decodeHistory(value string) (entries []domain.Entry, repaired bool, err error) {
	entries, err = unmarshalHistory(value)
	if err == nil {
		return entries, false, nil
	}

	fixed, repairErr := jsonrepair.JSONRepair(value)
	if repairErr != nil {
		logger.Warn("history repair failed: %v", repairErr)
		return nil, false, fmt.Errorf("%w: %v", domain.ErrCorruptHistory, err)
	}
	entries, err = unmarshalHistory(fixed)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrCorruptHistory, err)
	}
	return entries, true, nil
}

func unmarshalHistory(value string) ([]domain.Entry, error) {
	var entries []domain.Entry
	if err := json.Unmarshal([]byte(value), &entries); err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Sources == nil {
			entries[i].Sources = []string{}
		}
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}
