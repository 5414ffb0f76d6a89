package dummydb

import (
	"context"
	"sort"

	"github.com/opennotes/opennotes/core/content"
)

type noteRepository struct {
	db *noteTable
}

var _ content.NoteRepository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(db *DB) content.NoteRepository {
	return &noteRepository{db: db.note}
}

func (repo *noteRepository) query() []content.Note {
	notes := make([]content.Note, 0, len(repo.db.table))
	for _, n := range repo.db.table {
		notes = append(notes, *n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt.Before(notes[j].CreatedAt) })
	return notes
}

func (repo *noteRepository) CreateNote(_ context.Context, note content.Note) (content.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[note.ID] = &note
	return note, nil
}

func (repo *noteRepository) GetNoteByID(_ context.Context, id string) (content.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if note, ok := repo.db.table[id]; ok {
		return *note, nil
	}
	return content.Note{}, content.ErrNoteNotFound
}

func (repo *noteRepository) QueryAllNotes(_ context.Context) ([]content.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *noteRepository) QueryNotesBySubjectTitle(_ context.Context, title string, approvedOnly bool) ([]content.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var notes []content.Note
	for _, n := range repo.query() {
		if n.Subject != title {
			continue
		}
		if approvedOnly && !n.IsApproved {
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func (repo *noteRepository) QueryNotesByUploader(_ context.Context, uploaderID string) ([]content.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var notes []content.Note
	for _, n := range repo.query() {
		if n.UploaderID == uploaderID {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

func (repo *noteRepository) SetNoteApproved(_ context.Context, id string) (content.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	note, ok := repo.db.table[id]
	if !ok {
		return content.Note{}, content.ErrNoteNotFound
	}
	note.IsApproved = true
	return *note, nil
}

func (repo *noteRepository) DeleteNoteByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return content.ErrNoteNotFound
	}
	delete(repo.db.table, id)
	return nil
}
