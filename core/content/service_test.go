package content_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennotes/opennotes/core/content"
	chatsvc "github.com/opennotes/opennotes/services/chat"
	emailsvc "github.com/opennotes/opennotes/services/email"
	extractsvc "github.com/opennotes/opennotes/services/extract"
	uploadsvc "github.com/opennotes/opennotes/services/upload"
	dummydb "github.com/opennotes/opennotes/storage/database/dummy"
	testutil "github.com/opennotes/opennotes/tests"
)

type testDeps struct {
	svc         *content.Service
	subjectRepo content.SubjectRepository
	noteRepo    content.NoteRepository
	store       *uploadsvc.DummyStore
	extractor   *extractsvc.DummyExtractor
	completer   *chatsvc.DummyCompleter
}

func setup(t *testing.T) testDeps {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := testutil.NewConfig()
	subjectRepo := dummydb.NewSubjectRepository(db)
	noteRepo := dummydb.NewNoteRepository(db)
	store := uploadsvc.NewDummyStore()
	extractor := &extractsvc.DummyExtractor{}
	completer := &chatsvc.DummyCompleter{Answer: "42"}

	emailsvc.ClearSentMessages()
	svc := content.NewService(subjectRepo, noteRepo, store, extractor, completer, emailsvc.NewConsoleServiceMock(conf), conf)
	return testDeps{svc: svc, subjectRepo: subjectRepo, noteRepo: noteRepo, store: store, extractor: extractor, completer: completer}
}

func TestService_RequestSubject(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	sub, err := deps.svc.RequestSubject(ctx, content.NewSubject{Title: "Physics", Field: "Science"}, "usr1")
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.False(t, sub.IsApproved, "a requested subject must start pending")
	assert.Equal(t, "usr1", sub.RequestedBy)

	// pending subjects are hidden from the student listing
	visible, err := deps.svc.ListSubjects(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := deps.svc.ListSubjects(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_ApproveSubject(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	sub := testutil.CreateSubject(t, deps.subjectRepo, "Biology", "Science", false)

	approved, err := deps.svc.ApproveSubject(ctx, sub.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	// idempotent: second approval is a no-op, not an error
	again, err := deps.svc.ApproveSubject(ctx, sub.ID)
	require.NoError(t, err)
	assert.True(t, again.IsApproved)

	visible, err := deps.svc.ListSubjects(ctx, false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	_, err = deps.svc.ApproveSubject(ctx, "nope")
	assert.Equal(t, content.ErrSubjectNotFound, err)
}

func TestService_ApproveNote(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	testutil.CreateSubject(t, deps.subjectRepo, "Biology", "Science", true)
	note := testutil.CreateNote(t, deps.noteRepo, "Cells", "Biology", "usr1", "usr1@test.cd", false)

	// pending: absent from the subject feed, present in the uploader's list
	feed, err := deps.svc.NotesBySubject(ctx, "Biology")
	require.NoError(t, err)
	assert.Empty(t, feed)

	mine, err := deps.svc.NotesByUploader(ctx, "usr1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	approved, err := deps.svc.ApproveNote(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	feed, err = deps.svc.NotesBySubject(ctx, "Biology")
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	// uploader is notified once; re-approval sends nothing
	sent := emailsvc.GetSentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "usr1@test.cd", sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "is now live under Biology")

	_, err = deps.svc.ApproveNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(t, emailsvc.GetSentMessages(), 1)
}

func TestService_RejectNote(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	note := testutil.CreateNote(t, deps.noteRepo, "Cells", "Biology", "usr1", "usr1@test.cd", false)

	require.NoError(t, deps.svc.RejectNote(ctx, note.ID))

	// rejection is deletion; no "rejected" state survives
	_, err := deps.noteRepo.GetNoteByID(ctx, note.ID)
	assert.Equal(t, content.ErrNoteNotFound, err)

	sent := emailsvc.GetSentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "not pass review")

	assert.Equal(t, content.ErrNoteNotFound, deps.svc.RejectNote(ctx, note.ID))
}

func TestService_RejectSubject(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	sub := testutil.CreateSubject(t, deps.subjectRepo, "Alchemy", "Science", false)

	require.NoError(t, deps.svc.RejectSubject(ctx, sub.ID))
	_, err := deps.subjectRepo.GetSubjectByID(ctx, sub.ID)
	assert.Equal(t, content.ErrSubjectNotFound, err)

	assert.Equal(t, content.ErrSubjectNotFound, deps.svc.RejectSubject(ctx, sub.ID))
}

func TestService_DeleteSubject_cascade(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	sub := testutil.CreateSubject(t, deps.subjectRepo, "Biology", "Science", true)
	testutil.CreateNote(t, deps.noteRepo, "Cells", "Biology", "usr1", "usr1@test.cd", true)
	testutil.CreateNote(t, deps.noteRepo, "Genetics", "Biology", "usr2", "usr2@test.cd", false)
	keeper := testutil.CreateNote(t, deps.noteRepo, "Stars", "Astronomy", "usr1", "usr1@test.cd", true)

	statsBefore, err := deps.svc.AdminStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, statsBefore.TotalNotes)

	require.NoError(t, deps.svc.DeleteSubject(ctx, sub.ID))

	// every dependent note is gone, approved or not
	feed, err := deps.noteRepo.QueryNotesBySubjectTitle(ctx, "Biology", false)
	require.NoError(t, err)
	assert.Empty(t, feed)

	// unrelated notes survive
	_, err = deps.noteRepo.GetNoteByID(ctx, keeper.ID)
	assert.NoError(t, err)

	_, err = deps.subjectRepo.GetSubjectByID(ctx, sub.ID)
	assert.Equal(t, content.ErrSubjectNotFound, err)

	statsAfter, err := deps.svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, statsAfter.TotalNotes)
}

// failingNoteRepo refuses to delete one specific note.
type failingNoteRepo struct {
	content.NoteRepository
	stuckID string
}

func (repo *failingNoteRepo) DeleteNoteByID(ctx context.Context, id string) error {
	if id == repo.stuckID {
		return assert.AnError
	}
	return repo.NoteRepository.DeleteNoteByID(ctx, id)
}

func TestService_DeleteSubject_partialFailure(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	sub := testutil.CreateSubject(t, deps.subjectRepo, "Biology", "Science", true)
	testutil.CreateNote(t, deps.noteRepo, "Cells", "Biology", "usr1", "usr1@test.cd", true)
	stuck := testutil.CreateNote(t, deps.noteRepo, "Genetics", "Biology", "usr2", "usr2@test.cd", true)

	conf := testutil.NewConfig()
	svc := content.NewService(
		deps.subjectRepo,
		&failingNoteRepo{NoteRepository: deps.noteRepo, stuckID: stuck.ID},
		deps.store,
		deps.extractor,
		deps.completer,
		emailsvc.NewConsoleServiceMock(conf),
		conf,
	)

	err := svc.DeleteSubject(ctx, sub.ID)
	cascadeErr, ok := err.(*content.PartialCascadeError)
	require.True(t, ok, "want *PartialCascadeError, got %v", err)
	assert.Equal(t, sub.ID, cascadeErr.SubjectID)
	assert.False(t, cascadeErr.SubjectDeleted)
	assert.Equal(t, []string{stuck.ID}, cascadeErr.FailedNoteIDs)

	// the subject survives so the cascade can be retried by title
	_, err = deps.subjectRepo.GetSubjectByID(ctx, sub.ID)
	assert.NoError(t, err)
}

func TestService_UploadNote(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	nn := content.NewNote{Title: "Cells", Subject: "Biology"}

	_, err := deps.svc.UploadNote(ctx, nn, "", "", nil, "usr1", "usr1@test.cd")
	assert.Error(t, err, "a file is required")

	deps.extractor.Text = "The cell is the basic unit of life."
	file := bytes.NewReader([]byte("%PDF-1.4 lecture notes"))
	note, err := deps.svc.UploadNote(ctx, nn, "cells.pdf", "application/pdf", file, "usr1", "USR1@Test.CD")
	require.NoError(t, err)
	assert.False(t, note.IsApproved, "uploads start pending")
	assert.Equal(t, "usr1@test.cd", note.UploaderEmail)
	assert.Equal(t, "https://files.local/"+note.ID+"/cells.pdf", note.FileURL)
	assert.Equal(t, []byte("%PDF-1.4 lecture notes"), deps.store.Objects[note.ID+"/cells.pdf"])

	// document text is snapshotted onto the note at upload time
	assert.Equal(t, "The cell is the basic unit of life.", note.ExtractedText)
	assert.Equal(t, "application/pdf", deps.extractor.LastContentType)
}

func TestService_UploadNote_extraction(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	nn := content.NewNote{Title: "Cells", Subject: "Biology"}

	// a failed extraction never blocks the upload
	deps.extractor.Err = assert.AnError
	note, err := deps.svc.UploadNote(ctx, nn, "scan.pdf", "application/pdf",
		bytes.NewReader([]byte("%PDF-1.4")), "usr1", "usr1@test.cd")
	require.NoError(t, err)
	assert.Empty(t, note.ExtractedText)

	// oversized text is truncated before being stored
	deps.extractor.Err = nil
	deps.extractor.Text = strings.Repeat("a", 100001)
	note, err = deps.svc.UploadNote(ctx, nn, "book.pdf", "application/pdf",
		bytes.NewReader([]byte("%PDF-1.4")), "usr1", "usr1@test.cd")
	require.NoError(t, err)
	assert.Len(t, note.ExtractedText, 100000)
}

func TestService_CreateOnlineNote(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	note, err := deps.svc.CreateOnlineNote(
		ctx,
		content.NewOnlineNote{
			NewNote: content.NewNote{Title: "Cells", Subject: "Biology"},
			Content: "The cell is the basic unit of life.",
		},
		"usr1", "usr1@test.cd",
	)
	require.NoError(t, err)
	assert.Empty(t, note.FileURL)
	assert.Equal(t, "The cell is the basic unit of life.", note.Content)
	assert.False(t, note.IsApproved)
}

func TestService_AskQuestion(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	// no approved notes: canned answer, model never called
	answer, err := deps.svc.AskQuestion(ctx, "What is a cell?", "Biology")
	require.NoError(t, err)
	assert.Contains(t, answer, "couldn't find any notes")
	assert.Empty(t, deps.completer.LastUser)

	note := testutil.CreateNote(t, deps.noteRepo, "Cells", "Biology", "usr1", "usr1@test.cd", true)

	answer, err = deps.svc.AskQuestion(ctx, "What is a cell?", "Biology")
	require.NoError(t, err)
	assert.Equal(t, "42", answer)
	assert.Contains(t, deps.completer.LastUser, "What is a cell?")
	assert.Contains(t, deps.completer.LastUser, note.Description)

	// text extracted from an uploaded document feeds the context once approved
	deps.extractor.Text = "Mitochondria are the powerhouse of the cell."
	uploaded, err := deps.svc.UploadNote(ctx, content.NewNote{Title: "Organelles", Subject: "Biology"},
		"organelles.pdf", "application/pdf", bytes.NewReader([]byte("%PDF-1.4")), "usr1", "usr1@test.cd")
	require.NoError(t, err)
	_, err = deps.svc.ApproveNote(ctx, uploaded.ID)
	require.NoError(t, err)

	_, err = deps.svc.AskQuestion(ctx, "What powers the cell?", "Biology")
	require.NoError(t, err)
	assert.Contains(t, deps.completer.LastUser, "Mitochondria are the powerhouse")

	deps.completer.Err = assert.AnError
	_, err = deps.svc.AskQuestion(ctx, "What is a cell?", "Biology")
	assert.Error(t, err)
}

func TestService_Seed(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	inserted, err := deps.svc.Seed(ctx)
	require.NoError(t, err)
	assert.Len(t, inserted, len(content.SeedSubjects))
	for _, sub := range inserted {
		assert.True(t, sub.IsApproved, "seeded subjects are pre-approved")
	}

	// reseeding skips existing titles
	inserted, err = deps.svc.Seed(ctx)
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestNewNote_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	tests := []struct {
		name    string
		note    content.NewNote
		wantErr bool
	}{
		{name: "ok", note: content.NewNote{Title: "Cells", Subject: "Biology"}},
		{name: "missing title", note: content.NewNote{Subject: "Biology"}, wantErr: true},
		{name: "missing subject", note: content.NewNote{Title: "Cells"}, wantErr: true},
		{name: "whitespace title", note: content.NewNote{Title: "   ", Subject: "Biology"}, wantErr: true},
		{
			name:    "bad youtube url",
			note:    content.NewNote{Title: "Cells", Subject: "Biology", YoutubeURL: "https://vimeo.com/123"},
			wantErr: true,
		},
		{
			name: "good youtube url",
			note: content.NewNote{Title: "Cells", Subject: "Biology", YoutubeURL: "https://youtu.be/dQw4w9WgXcQ"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.note.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewOnlineNote_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	non := content.NewOnlineNote{NewNote: content.NewNote{Title: "Cells", Subject: "Biology"}}
	assert.Error(t, non.Validate(validate), "content is required")

	non.Content = "  The cell is the basic unit of life.  "
	require.NoError(t, non.Validate(validate))
	assert.Equal(t, "The cell is the basic unit of life.", non.Content, "content is cleaned in place")
}
