package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core"
)

var (
	// errors
	ErrSubjectNotFound = errors.New("subject not found")
	ErrNoteNotFound    = errors.New("note not found")
)

// PartialCascadeError reports a cascade delete that completed only partially:
// the subject (and some notes) may be gone while the listed note ids remain.
// Callers must report it distinctly so an admin can retry the leftovers.
type PartialCascadeError struct {
	SubjectID      string
	SubjectDeleted bool
	FailedNoteIDs  []string
}

func (err *PartialCascadeError) Error() string {
	return fmt.Sprintf("cascade delete of subject %s incomplete: %d note(s) not deleted", err.SubjectID, len(err.FailedNoteIDs))
}

type (
	SubjectRepository interface {
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		// QuerySubjects returns all subjects; approvedOnly restricts to IsApproved=true.
		QuerySubjects(ctx context.Context, approvedOnly bool) ([]Subject, error)
		SetSubjectApproved(ctx context.Context, id string) (Subject, error)
		DeleteSubjectByID(ctx context.Context, id string) error
	}

	NoteRepository interface {
		CreateNote(ctx context.Context, note Note) (Note, error)
		GetNoteByID(ctx context.Context, id string) (Note, error)
		QueryAllNotes(ctx context.Context) ([]Note, error)
		// QueryNotesBySubjectTitle matches on the denormalized subject title;
		// approvedOnly restricts to IsApproved=true.
		QueryNotesBySubjectTitle(ctx context.Context, title string, approvedOnly bool) ([]Note, error)
		QueryNotesByUploader(ctx context.Context, uploaderID string) ([]Note, error)
		SetNoteApproved(ctx context.Context, id string) (Note, error)
		DeleteNoteByID(ctx context.Context, id string) error
	}

	// Stats is the admin dashboard aggregate.
	Stats struct {
		TotalNotes int    `json:"total_notes"`
		AllNotes   []Note `json:"all_notes"`
	}

	ServiceInterface interface {
		RequestSubject(ctx context.Context, ns NewSubject, requesterID string) (Subject, error)
		UploadNote(ctx context.Context, nn NewNote, filename, contentType string, file io.Reader, uploaderID, uploaderEmail string) (Note, error)
		CreateOnlineNote(ctx context.Context, non NewOnlineNote, uploaderID, uploaderEmail string) (Note, error)

		ApproveSubject(ctx context.Context, id string) (Subject, error)
		ApproveNote(ctx context.Context, id string) (Note, error)
		RejectSubject(ctx context.Context, id string) error
		RejectNote(ctx context.Context, id string) error
		DeleteSubject(ctx context.Context, id string) error
		DeleteNote(ctx context.Context, id string) error

		ListSubjects(ctx context.Context, includeUnapproved bool) ([]Subject, error)
		NotesBySubject(ctx context.Context, title string) ([]Note, error)
		NotesByUploader(ctx context.Context, uploaderID string) ([]Note, error)
		AdminStats(ctx context.Context) (Stats, error)

		AskQuestion(ctx context.Context, question, subjectTitle string) (string, error)
	}

	Service struct {
		subjects  SubjectRepository
		notes     NoteRepository
		files     core.FileStore
		extractor core.TextExtractor
		completer core.ChatCompleter
		mailSvc   core.EmailService
		conf      *core.Config
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(
	subjects SubjectRepository,
	notes NoteRepository,
	files core.FileStore,
	extractor core.TextExtractor,
	completer core.ChatCompleter,
	mailSvc core.EmailService,
	conf *core.Config,
) *Service {
	return &Service{
		subjects:  subjects,
		notes:     notes,
		files:     files,
		extractor: extractor,
		completer: completer,
		mailSvc:   mailSvc,
		conf:      conf,
	}
}

// -----------------------------------------------------------------------------
// Creation

// RequestSubject records a subject proposal; it stays pending until an admin
// approves it.
func (svc *Service) RequestSubject(ctx context.Context, ns NewSubject, requesterID string) (Subject, error) {
	sub := Subject{
		ID:          uuid.New().String(),
		Title:       ns.Title,
		Code:        ns.Code,
		Field:       ns.Field,
		Description: ns.Description,
		Icon:        ns.Icon,
		IsApproved:  false,
		RequestedBy: requesterID,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.subjects.CreateSubject(ctx, sub)
}

// UploadNote persists the file first and only records the note once a
// retrievable URL exists; a storage failure therefore never leaves a note
// without its file. The document's plain text is snapshotted onto the note
// at upload time so the tutor can answer from it later.
func (svc *Service) UploadNote(
	ctx context.Context,
	nn NewNote,
	filename, contentType string,
	file io.Reader,
	uploaderID, uploaderEmail string,
) (Note, error) {
	if file == nil || filename == "" {
		return Note{}, core.NewValidationError(nil, core.FieldError{Field: "file", Error: "this field is required"})
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return Note{}, errors.Wrap(err, "reading note file")
	}

	note := svc.newNote(nn, uploaderID, uploaderEmail)

	key := note.ID + "/" + filepath.Base(filename)
	url, err := svc.files.Upload(ctx, key, contentType, bytes.NewReader(raw))
	if err != nil {
		return Note{}, errors.Wrap(err, "uploading note file")
	}
	note.FileURL = url

	// a document whose text cannot be extracted (scanned, malformed) still
	// uploads; it just contributes nothing to the tutor context
	if txt, err := svc.extractor.ExtractText(contentType, raw); err == nil {
		if len(txt) > maxExtractedTextChars {
			txt = txt[:maxExtractedTextChars]
		}
		note.ExtractedText = txt
	}

	return svc.notes.CreateNote(ctx, note)
}

// CreateOnlineNote records a note authored in the app; no file involved.
func (svc *Service) CreateOnlineNote(ctx context.Context, non NewOnlineNote, uploaderID, uploaderEmail string) (Note, error) {
	note := svc.newNote(non.NewNote, uploaderID, uploaderEmail)
	note.Content = non.Content
	return svc.notes.CreateNote(ctx, note)
}

func (svc *Service) newNote(nn NewNote, uploaderID, uploaderEmail string) Note {
	return Note{
		ID:            uuid.New().String(),
		Title:         nn.Title,
		Subject:       nn.Subject,
		Course:        nn.Course,
		Chapter:       nn.Chapter,
		Tags:          nn.Tags,
		AcademicLevel: nn.AcademicLevel,
		Description:   nn.Description,
		YoutubeURL:    nn.YoutubeURL,
		UploaderID:    uploaderID,
		UploaderEmail: core.CleanString(uploaderEmail, true /* lower */),
		IsApproved:    false,
		CreatedAt:     time.Now().UTC(),
	}
}

// -----------------------------------------------------------------------------
// Moderation

// ApproveSubject marks a pending subject approved. Idempotent: approving an
// already-approved subject is a no-op, not an error. Approval never reverts.
func (svc *Service) ApproveSubject(ctx context.Context, id string) (Subject, error) {
	sub, err := svc.subjects.GetSubjectByID(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	if sub.IsApproved {
		return sub, nil
	}
	return svc.subjects.SetSubjectApproved(ctx, id)
}

// ApproveNote marks a pending note approved (idempotent) and notifies the
// uploader.
func (svc *Service) ApproveNote(ctx context.Context, id string) (Note, error) {
	note, err := svc.notes.GetNoteByID(ctx, id)
	if err != nil {
		return Note{}, err
	}
	if note.IsApproved {
		return note, nil
	}
	note, err = svc.notes.SetNoteApproved(ctx, id)
	if err != nil {
		return Note{}, err
	}

	svc.notifyUploader(note,
		"Your note was approved",
		fmt.Sprintf("Your note %q is now live under %s. Thanks for contributing!", note.Title, note.Subject),
	)
	return note, nil
}

// RejectSubject removes a pending subject. Rejection and deletion are the
// same operation: no "rejected" state is retained.
func (svc *Service) RejectSubject(ctx context.Context, id string) error {
	if _, err := svc.subjects.GetSubjectByID(ctx, id); err != nil {
		return err
	}
	return svc.subjects.DeleteSubjectByID(ctx, id)
}

// RejectNote removes a note and notifies the uploader.
func (svc *Service) RejectNote(ctx context.Context, id string) error {
	note, err := svc.notes.GetNoteByID(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.notes.DeleteNoteByID(ctx, id); err != nil {
		return err
	}

	svc.notifyUploader(note,
		"Your note was not approved",
		fmt.Sprintf("Your note %q under %s did not pass review and has been removed.", note.Title, note.Subject),
	)
	return nil
}

// DeleteSubject removes a subject together with every note referencing its
// title. The two collections are linked only by the denormalized title, so
// this is non-atomic: dependent notes go first, making a partial failure
// recoverable by retrying just the failed ids. A partial failure is reported
// as *PartialCascadeError, never folded into a generic delete error.
func (svc *Service) DeleteSubject(ctx context.Context, id string) error {
	sub, err := svc.subjects.GetSubjectByID(ctx, id)
	if err != nil {
		return err
	}

	notes, err := svc.notes.QueryNotesBySubjectTitle(ctx, sub.Title, false /* approvedOnly */)
	if err != nil {
		return errors.Wrap(err, "querying dependent notes")
	}

	var failed []string
	for _, note := range notes {
		if err = svc.notes.DeleteNoteByID(ctx, note.ID); err != nil {
			failed = append(failed, note.ID)
		}
	}
	if len(failed) > 0 {
		// leave the subject in place; the retry needs its title intact
		return &PartialCascadeError{SubjectID: id, SubjectDeleted: false, FailedNoteIDs: failed}
	}

	if err = svc.subjects.DeleteSubjectByID(ctx, id); err != nil {
		return errors.Wrap(err, "deleting subject after notes")
	}
	return nil
}

// DeleteNote removes a single note. Admin only; uploader self-delete is not
// part of the authorization policy.
func (svc *Service) DeleteNote(ctx context.Context, id string) error {
	if _, err := svc.notes.GetNoteByID(ctx, id); err != nil {
		return err
	}
	return svc.notes.DeleteNoteByID(ctx, id)
}

// -----------------------------------------------------------------------------
// Queries

func (svc *Service) ListSubjects(ctx context.Context, includeUnapproved bool) ([]Subject, error) {
	return svc.subjects.QuerySubjects(ctx, !includeUnapproved)
}

func (svc *Service) NotesBySubject(ctx context.Context, title string) ([]Note, error) {
	return svc.notes.QueryNotesBySubjectTitle(ctx, core.CleanString(title), true /* approvedOnly */)
}

func (svc *Service) NotesByUploader(ctx context.Context, uploaderID string) ([]Note, error) {
	return svc.notes.QueryNotesByUploader(ctx, uploaderID)
}

func (svc *Service) AdminStats(ctx context.Context) (Stats, error) {
	notes, err := svc.notes.QueryAllNotes(ctx)
	if err != nil {
		return Stats{}, err
	}
	if notes == nil {
		notes = []Note{}
	}
	return Stats{TotalNotes: len(notes), AllNotes: notes}, nil
}

// -----------------------------------------------------------------------------
// Tutoring

const (
	maxChatContextChars   = 30000
	maxExtractedTextChars = 100000

	tutorSystemPrompt = "You are a helpful tutor. Answer the question based ONLY on the following notes. " +
		"If the answer is not in the notes, say \"I don't see that in your notes.\""

	noNotesAnswer = "I couldn't find any notes for this subject yet. Upload some notes first!"
)

// AskQuestion answers a student question grounded in the subject's approved
// notes. With no usable note text it answers canned, without calling the model.
func (svc *Service) AskQuestion(ctx context.Context, question, subjectTitle string) (string, error) {
	notes, err := svc.notes.QueryNotesBySubjectTitle(ctx, core.CleanString(subjectTitle), true /* approvedOnly */)
	if err != nil {
		return "", errors.Wrap(err, "collecting notes for chat context")
	}

	var sb strings.Builder
	for _, note := range notes {
		for _, txt := range []string{note.Content, note.ExtractedText, note.Description} {
			if txt == "" {
				continue
			}
			if sb.Len()+len(txt) > maxChatContextChars {
				break
			}
			sb.WriteString(txt)
			sb.WriteString("\n\n")
		}
	}
	if sb.Len() == 0 {
		return noNotesAnswer, nil
	}

	prompt := fmt.Sprintf("NOTES:\n%s\nQUESTION:\n%s", sb.String(), question)
	answer, err := svc.completer.Complete(ctx, tutorSystemPrompt, prompt)
	if err != nil {
		return "", errors.Wrap(err, "completing chat prompt")
	}
	return answer, nil
}

// -----------------------------------------------------------------------------

func (svc *Service) notifyUploader(note Note, subject, body string) {
	if note.UploaderEmail == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: note.UploaderEmail}},
		Subject: subject,
		BodyStr: body,
	})
}
