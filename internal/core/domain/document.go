package domain

import (
	"path/filepath"
	"strings"
)

// SupportedExtension is the only file extension the backend accepts.
const SupportedExtension = ".pdf"

// UploadFile is a document chosen by the user, ready to be submitted.
type UploadFile struct {
	// Name is the base file name, used as the multipart filename and
	// as the default history key.
	Name string

	// Data is the raw file content.
	Data []byte
}

// NewUploadFile builds an UploadFile from a path and its content.
// Only the base name of path is kept.
func NewUploadFile(path string, data []byte) UploadFile {
	return UploadFile{
		Name: filepath.Base(path),
		Data: data,
	}
}

// Validate checks the file can be submitted.
func (f UploadFile) Validate() error {
	if !strings.EqualFold(filepath.Ext(f.Name), SupportedExtension) {
		return ErrUnsupportedFileType
	}
	if len(f.Data) == 0 {
		return ErrEmptyFile
	}
	return nil
}

// Size returns the content length in bytes.
func (f UploadFile) Size() int {
	return len(f.Data)
}

// UploadResult is the remote service's answer to a document submission.
type UploadResult struct {
	// DocumentID is the opaque identifier assigned by the backend.
	DocumentID string
}

// DocumentSession is the currently loaded file and its backend identifier.
// There is at most one active session.
type DocumentSession struct {
	// File is the uploaded document.
	File UploadFile

	// DocumentID is the identifier returned by the backend.
	DocumentID string
}

// Name returns the uploaded file name.
func (s *DocumentSession) Name() string {
	if s == nil {
		return ""
	}
	return s.File.Name
}

// UploadStatus describes the last upload for display.
type UploadStatus string

// Upload statuses.
const (
	UploadStatusNone      UploadStatus = "none"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusSuccess   UploadStatus = "success"
	UploadStatusError     UploadStatus = "error"
)

// Description returns the status line shown under the file name.
func (s UploadStatus) Description() string {
	switch s {
	case UploadStatusUploading:
		return "Uploading..."
	case UploadStatusSuccess:
		return "Upload successful!"
	case UploadStatusError:
		return "Upload failed. Please try again."
	case UploadStatusNone:
		return ""
	default:
		return ""
	}
}
