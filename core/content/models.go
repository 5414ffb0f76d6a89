package content

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/opennotes/opennotes/core"
)

// Subject is a top-level curriculum category containing Notes.
// It is created pending (IsApproved=false) and becomes visible to students
// only after admin approval. Approval never reverts.
type Subject struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Code        string    `json:"code,omitempty"`
	Field       string    `json:"field"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	IsApproved  bool      `json:"is_approved"`
	RequestedBy string    `json:"requested_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Note is a single unit of study content belonging to one Subject.
// The relationship is by denormalized subject title, not by id: renaming a
// subject after notes reference it orphans those notes (known limitation).
// Exactly one of FileURL (uploaded) or Content (authored online) is
// meaningfully populated.
type Note struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Subject       string    `json:"subject"` // denormalized Subject.Title
	Course        string    `json:"course,omitempty"`
	Chapter       string    `json:"chapter,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	AcademicLevel string    `json:"academic_level,omitempty"`
	Description   string    `json:"description,omitempty"`
	YoutubeURL    string    `json:"youtube_url,omitempty"`
	FileURL       string    `json:"file_url,omitempty"`
	Content       string    `json:"content,omitempty"`
	ExtractedText string    `json:"-"` // document text snapshotted at upload, feeds the tutor context
	UploaderID    string    `json:"uploader_id"`
	UploaderEmail string    `json:"-"` // snapshotted for moderation notifications
	IsApproved    bool      `json:"is_approved"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewSubject contains information needed to request a new Subject.
type NewSubject struct {
	Title       string `json:"title" validate:"required"`
	Code        string `json:"code"`
	Field       string `json:"field" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Title = core.CleanString(ns.Title)
	ns.Code = core.CleanString(ns.Code)
	ns.Field = core.CleanString(ns.Field)
	ns.Description = core.CleanString(ns.Description)
	return validate.Struct(ns)
}

// NewNote contains the metadata accompanying an uploaded note file.
// The file itself travels separately (multipart).
type NewNote struct {
	Title         string   `json:"title" validate:"required"`
	Subject       string   `json:"subject" validate:"required"`
	Course        string   `json:"course"`
	Chapter       string   `json:"chapter"`
	Tags          []string `json:"tags"`
	AcademicLevel string   `json:"academic_level"`
	Description   string   `json:"description"`
	YoutubeURL    string   `json:"youtube_url" validate:"omitempty,youtube_url"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Subject = core.CleanString(nn.Subject)
	nn.Chapter = core.CleanString(nn.Chapter)
	nn.YoutubeURL = core.CleanString(nn.YoutubeURL)
	return validate.Struct(nn)
}

// NewOnlineNote contains a note authored directly in the app.
type NewOnlineNote struct {
	NewNote
	Content string `json:"content" validate:"required"`
}

func (non *NewOnlineNote) Validate(validate *validator.Validate) error {
	non.Title = core.CleanString(non.Title)
	non.Subject = core.CleanString(non.Subject)
	non.Chapter = core.CleanString(non.Chapter)
	non.YoutubeURL = core.CleanString(non.YoutubeURL)
	non.Content = core.CleanString(non.Content)
	return validate.Struct(non)
}
