package dummydb

import (
	"context"
	"sort"

	"github.com/opennotes/opennotes/core/content"
)

type subjectRepository struct {
	db *subjectTable
}

var _ content.SubjectRepository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) content.SubjectRepository {
	return &subjectRepository{db: db.subject}
}

func (repo *subjectRepository) query() []content.Subject {
	subs := make([]content.Subject, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		subs = append(subs, *s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.Before(subs[j].CreatedAt) })
	return subs
}

func (repo *subjectRepository) CreateSubject(_ context.Context, sub content.Subject) (content.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *subjectRepository) GetSubjectByID(_ context.Context, id string) (content.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.table[id]; ok {
		return *sub, nil
	}
	return content.Subject{}, content.ErrSubjectNotFound
}

func (repo *subjectRepository) QuerySubjects(_ context.Context, approvedOnly bool) ([]content.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := repo.query()
	if !approvedOnly {
		return subs, nil
	}
	filtered := make([]content.Subject, 0, len(subs))
	for _, s := range subs {
		if s.IsApproved {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func (repo *subjectRepository) SetSubjectApproved(_ context.Context, id string) (content.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub, ok := repo.db.table[id]
	if !ok {
		return content.Subject{}, content.ErrSubjectNotFound
	}
	sub.IsApproved = true
	return *sub, nil
}

func (repo *subjectRepository) DeleteSubjectByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return content.ErrSubjectNotFound
	}
	delete(repo.db.table, id)
	return nil
}
