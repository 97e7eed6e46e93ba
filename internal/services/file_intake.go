package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"partnershipintake/internal/domain"
	"partnershipintake/internal/metrics"
)

const (
	maxConceptNoteBytes = 5 << 20
	maxLogoBytes        = 2 << 20
	maxStoredNameLen    = 100
)

type fileRule struct {
	field       string
	folder      string
	required    bool
	maxBytes    int64
	types       []string
	requiredMsg string
	typeMsg     string
	sizeMsg     string
}

var fileRules = map[domain.FilePurpose]fileRule{
	domain.PurposeConceptNote: {
		field:       "file_concept",
		folder:      "concept-notes",
		required:    true,
		maxBytes:    maxConceptNoteBytes,
		types:       []string{"application/pdf"},
		requiredMsg: "Concept note is required",
		typeMsg:     "Concept note must be a PDF file",
		sizeMsg:     "Concept note must be less than 5MB",
	},
	domain.PurposeLogo: {
		field:    "file_logo",
		folder:   "logos",
		maxBytes: maxLogoBytes,
		types:    []string{"image/png", "image/jpeg"},
		typeMsg:  "Logo must be a PNG or JPEG image",
		sizeMsg:  "Logo must be less than 2MB",
	},
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type fileIntake struct {
	store domain.ObjectStore
}

// NewFileIntake returns a FileIntake that uploads accepted files to store.
func NewFileIntake(store domain.ObjectStore) domain.FileIntake {
	return &fileIntake{store: store}
}

// Check returns a *domain.ValidationError keyed by the form field name when the file is
// missing, too large, or of the wrong type.
func (f *fileIntake) Check(file *domain.UploadedFile, purpose domain.FilePurpose) error {
	rule, ok := fileRules[purpose]
	if !ok {
		return fmt.Errorf("unknown file purpose %q", purpose)
	}
	size := fileSize(file)
	if size == 0 {
		if rule.required {
			return domain.NewValidationError(map[string]string{rule.field: rule.requiredMsg})
		}
		return nil
	}
	if _, ok := acceptedType(file, rule.types); !ok {
		return domain.NewValidationError(map[string]string{rule.field: rule.typeMsg})
	}
	if size > rule.maxBytes {
		return domain.NewValidationError(map[string]string{rule.field: rule.sizeMsg})
	}
	return nil
}

func (f *fileIntake) Store(ctx context.Context, file *domain.UploadedFile, purpose domain.FilePurpose) (*domain.StoredFile, error) {
	if err := f.Check(file, purpose); err != nil {
		return nil, err
	}
	if fileSize(file) == 0 {
		return nil, nil
	}
	rule := fileRules[purpose]
	contentType, _ := acceptedType(file, rule.types)
	key := fmt.Sprintf("%s/%s-%s", rule.folder, uuid.NewString(), sanitizeFileName(file.Name))
	meta := map[string]string{
		"original-name": file.Name,
		"purpose":       string(purpose),
	}
	url, err := f.store.Put(ctx, key, contentType, file.Data, meta)
	if err != nil {
		return nil, fmt.Errorf("%w: upload %s: %v", domain.ErrStorage, key, err)
	}
	size := fileSize(file)
	metrics.FileUploadBytes.WithLabelValues(string(purpose)).Observe(float64(size))
	return &domain.StoredFile{URL: url, Key: key, Name: file.Name, Size: size}, nil
}

func fileSize(file *domain.UploadedFile) int64 {
	if file == nil {
		return 0
	}
	if file.Size > 0 {
		return file.Size
	}
	return int64(len(file.Data))
}

// acceptedType resolves the declared part type, sniffs the content and returns the
// type only when both agree and it is in allowed. An empty declaration trusts the sniff.
func acceptedType(file *domain.UploadedFile, allowed []string) (string, bool) {
	sniffed := http.DetectContentType(file.Data)
	if i := strings.Index(sniffed, ";"); i >= 0 {
		sniffed = sniffed[:i]
	}
	declared := sniffed
	if file.ContentType != "" {
		mt, _, err := mime.ParseMediaType(file.ContentType)
		if err != nil {
			return "", false
		}
		declared = mt
	}
	if declared != sniffed {
		return "", false
	}
	for _, t := range allowed {
		if t == declared {
			return declared, true
		}
	}
	return "", false
}

func sanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "file"
	}
	if len(base) > maxStoredNameLen {
		base = base[len(base)-maxStoredNameLen:]
	}
	return strings.ToLower(base)
}
