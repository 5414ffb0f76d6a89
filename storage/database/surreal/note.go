package surrealrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/surrealdb/surrealdb.go"

	"github.com/opennotes/opennotes/core/content"
)

type noteRow struct {
	ID            string    `json:"id,omitempty"`
	Title         string    `json:"title"`
	Subject       string    `json:"subject"`
	Course        string    `json:"course,omitempty"`
	Chapter       string    `json:"chapter,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	AcademicLevel string    `json:"academic_level,omitempty"`
	Description   string    `json:"description,omitempty"`
	YoutubeURL    string    `json:"youtube_url,omitempty"`
	FileURL       string    `json:"file_url,omitempty"`
	Content       string    `json:"content,omitempty"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	UploaderID    string    `json:"uploader_id"`
	UploaderEmail string    `json:"uploader_email,omitempty"`
	IsApproved    bool      `json:"is_approved"`
	CreatedAt     time.Time `json:"created_at"`
}

func newNoteRow(note content.Note) noteRow {
	return noteRow{
		Title:         note.Title,
		Subject:       note.Subject,
		Course:        note.Course,
		Chapter:       note.Chapter,
		Tags:          note.Tags,
		AcademicLevel: note.AcademicLevel,
		Description:   note.Description,
		YoutubeURL:    note.YoutubeURL,
		FileURL:       note.FileURL,
		Content:       note.Content,
		ExtractedText: note.ExtractedText,
		UploaderID:    note.UploaderID,
		UploaderEmail: note.UploaderEmail,
		IsApproved:    note.IsApproved,
		CreatedAt:     note.CreatedAt,
	}
}

func (row noteRow) toNote() content.Note {
	return content.Note{
		ID:            plainID(row.ID),
		Title:         row.Title,
		Subject:       row.Subject,
		Course:        row.Course,
		Chapter:       row.Chapter,
		Tags:          row.Tags,
		AcademicLevel: row.AcademicLevel,
		Description:   row.Description,
		YoutubeURL:    row.YoutubeURL,
		FileURL:       row.FileURL,
		Content:       row.Content,
		ExtractedText: row.ExtractedText,
		UploaderID:    row.UploaderID,
		UploaderEmail: row.UploaderEmail,
		IsApproved:    row.IsApproved,
		CreatedAt:     row.CreatedAt,
	}
}

type noteRepository struct {
	db *surrealdb.DB
}

var _ content.NoteRepository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(db *surrealdb.DB) content.NoteRepository {
	return &noteRepository{db: db}
}

func (repo *noteRepository) rowsToNotes(resp interface{}, wrapMsg string) ([]content.Note, error) {
	rows, err := unmarshalQuery[noteRow](resp)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	notes := make([]content.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.toNote())
	}
	return notes, nil
}

func (repo *noteRepository) CreateNote(_ context.Context, note content.Note) (content.Note, error) {
	resp, err := repo.db.Query(
		"CREATE type::thing($tb, $id) CONTENT $data",
		map[string]interface{}{"tb": noteTable, "id": note.ID, "data": newNoteRow(note)},
	)
	if err != nil {
		return content.Note{}, errors.Wrap(err, "creating note")
	}
	rows, err := unmarshalQuery[noteRow](resp)
	if err != nil {
		return content.Note{}, err
	}
	if len(rows) == 0 {
		return content.Note{}, errors.New("created note not returned")
	}
	return rows[0].toNote(), nil
}

func (repo *noteRepository) GetNoteByID(_ context.Context, id string) (content.Note, error) {
	resp, err := repo.db.Query(
		"SELECT * FROM type::thing($tb, $id)",
		map[string]interface{}{"tb": noteTable, "id": id},
	)
	if err != nil {
		return content.Note{}, errors.Wrap(err, "getting note")
	}
	rows, err := unmarshalQuery[noteRow](resp)
	if err != nil {
		return content.Note{}, err
	}
	if len(rows) == 0 {
		return content.Note{}, content.ErrNoteNotFound
	}
	return rows[0].toNote(), nil
}

func (repo *noteRepository) QueryAllNotes(_ context.Context) ([]content.Note, error) {
	resp, err := repo.db.Query(
		"SELECT * FROM type::table($tb) ORDER BY created_at",
		map[string]interface{}{"tb": noteTable},
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	return repo.rowsToNotes(resp, "querying notes")
}

func (repo *noteRepository) QueryNotesBySubjectTitle(_ context.Context, title string, approvedOnly bool) ([]content.Note, error) {
	sql := "SELECT * FROM type::table($tb) WHERE subject = $subject ORDER BY created_at"
	if approvedOnly {
		sql = "SELECT * FROM type::table($tb) WHERE subject = $subject AND is_approved = true ORDER BY created_at"
	}
	resp, err := repo.db.Query(sql, map[string]interface{}{"tb": noteTable, "subject": title})
	if err != nil {
		return nil, errors.Wrap(err, "querying notes by subject")
	}
	return repo.rowsToNotes(resp, "querying notes by subject")
}

func (repo *noteRepository) QueryNotesByUploader(_ context.Context, uploaderID string) ([]content.Note, error) {
	resp, err := repo.db.Query(
		"SELECT * FROM type::table($tb) WHERE uploader_id = $uploader ORDER BY created_at",
		map[string]interface{}{"tb": noteTable, "uploader": uploaderID},
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying notes by uploader")
	}
	return repo.rowsToNotes(resp, "querying notes by uploader")
}

func (repo *noteRepository) SetNoteApproved(_ context.Context, id string) (content.Note, error) {
	resp, err := repo.db.Query(
		"UPDATE type::thing($tb, $id) MERGE { is_approved: true }",
		map[string]interface{}{"tb": noteTable, "id": id},
	)
	if err != nil {
		return content.Note{}, errors.Wrap(err, "approving note")
	}
	rows, err := unmarshalQuery[noteRow](resp)
	if err != nil {
		return content.Note{}, err
	}
	if len(rows) == 0 {
		return content.Note{}, content.ErrNoteNotFound
	}
	return rows[0].toNote(), nil
}

func (repo *noteRepository) DeleteNoteByID(_ context.Context, id string) error {
	if _, err := repo.db.Query(
		"DELETE type::thing($tb, $id)",
		map[string]interface{}{"tb": noteTable, "id": id},
	); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return nil
}
