package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"partnershipintake/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer\n%%EOF")
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
)

func pdfFile(name string) *domain.UploadedFile {
	return &domain.UploadedFile{Name: name, ContentType: "application/pdf", Size: int64(len(pdfBytes)), Data: pdfBytes}
}

func pngFile(name string) *domain.UploadedFile {
	return &domain.UploadedFile{Name: name, ContentType: "image/png", Size: int64(len(pngBytes)), Data: pngBytes}
}

func TestFileIntake_Check(t *testing.T) {
	intake := NewFileIntake(newFakeObjectStore())

	tests := []struct {
		name      string
		file      *domain.UploadedFile
		purpose   domain.FilePurpose
		wantField string
		wantMsg   string
	}{
		{name: "valid pdf", file: pdfFile("plan.pdf"), purpose: domain.PurposeConceptNote},
		{name: "missing concept note", file: nil, purpose: domain.PurposeConceptNote, wantField: "file_concept", wantMsg: "Concept note is required"},
		{name: "empty concept note", file: &domain.UploadedFile{Name: "plan.pdf", ContentType: "application/pdf"}, purpose: domain.PurposeConceptNote, wantField: "file_concept", wantMsg: "Concept note is required"},
		{name: "png as concept note", file: pngFile("plan.png"), purpose: domain.PurposeConceptNote, wantField: "file_concept", wantMsg: "Concept note must be a PDF file"},
		{
			name:      "declared pdf but not pdf content",
			file:      &domain.UploadedFile{Name: "plan.pdf", ContentType: "application/pdf", Data: []byte("hello world"), Size: 11},
			purpose:   domain.PurposeConceptNote,
			wantField: "file_concept",
			wantMsg:   "Concept note must be a PDF file",
		},
		{
			name:      "concept note over 5MB",
			file:      &domain.UploadedFile{Name: "plan.pdf", ContentType: "application/pdf", Data: pdfBytes, Size: 5<<20 + 1},
			purpose:   domain.PurposeConceptNote,
			wantField: "file_concept",
			wantMsg:   "Concept note must be less than 5MB",
		},
		{name: "missing logo is fine", file: nil, purpose: domain.PurposeLogo},
		{name: "valid png logo", file: pngFile("logo.png"), purpose: domain.PurposeLogo},
		{name: "pdf as logo", file: pdfFile("logo.pdf"), purpose: domain.PurposeLogo, wantField: "file_logo", wantMsg: "Logo must be a PNG or JPEG image"},
		{
			name:      "logo over 2MB",
			file:      &domain.UploadedFile{Name: "logo.png", ContentType: "image/png", Data: pngBytes, Size: 2<<20 + 1},
			purpose:   domain.PurposeLogo,
			wantField: "file_logo",
			wantMsg:   "Logo must be less than 2MB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := intake.Check(tt.file, tt.purpose)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			assert.Equal(t, map[string]string{tt.wantField: tt.wantMsg}, ve.Fields)
		})
	}
}

func TestFileIntake_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads under purpose folder with sanitized name", func(t *testing.T) {
		store := newFakeObjectStore()
		intake := NewFileIntake(store)

		stored, err := intake.Store(ctx, pdfFile("../Event Plan (final).PDF"), domain.PurposeConceptNote)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, strings.HasPrefix(stored.Key, "concept-notes/"), stored.Key)
		assert.True(t, strings.HasSuffix(stored.Key, "-event_plan_final_.pdf"), stored.Key)
		assert.Equal(t, "https://files.example.com/"+stored.Key, stored.URL)
		assert.Equal(t, "../Event Plan (final).PDF", stored.Name)
		assert.Equal(t, pdfBytes, store.puts[stored.Key])
	})

	t.Run("absent optional file stores nothing", func(t *testing.T) {
		store := newFakeObjectStore()
		stored, err := NewFileIntake(store).Store(ctx, nil, domain.PurposeLogo)
		require.NoError(t, err)
		assert.Nil(t, stored)
		assert.Empty(t, store.puts)
	})

	t.Run("invalid file is never uploaded", func(t *testing.T) {
		store := newFakeObjectStore()
		_, err := NewFileIntake(store).Store(ctx, pngFile("x.png"), domain.PurposeConceptNote)
		require.Error(t, err)
		assert.Empty(t, store.puts)
	})

	t.Run("store failure maps to ErrStorage", func(t *testing.T) {
		store := newFakeObjectStore()
		store.err = errors.New("bucket unreachable")
		_, err := NewFileIntake(store).Store(ctx, pdfFile("plan.pdf"), domain.PurposeConceptNote)
		require.ErrorIs(t, err, domain.ErrStorage)
	})
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"plan.pdf":                "plan.pdf",
		"My Logo.PNG":             "my_logo.png",
		`C:\Users\me\concept.pdf`: "concept.pdf",
		"../../etc/passwd":        "passwd",
		"...":                     "file",
		"résumé 2025.pdf":         "r_sum_2025.pdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFileName(in), in)
	}
}
