package surrealrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/surrealdb/surrealdb.go"

	"github.com/opennotes/opennotes/core/content"
)

type subjectRow struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Code        string    `json:"code,omitempty"`
	Field       string    `json:"field"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	IsApproved  bool      `json:"is_approved"`
	RequestedBy string    `json:"requested_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newSubjectRow(sub content.Subject) subjectRow {
	return subjectRow{
		Title:       sub.Title,
		Code:        sub.Code,
		Field:       sub.Field,
		Description: sub.Description,
		Icon:        sub.Icon,
		IsApproved:  sub.IsApproved,
		RequestedBy: sub.RequestedBy,
		CreatedAt:   sub.CreatedAt,
	}
}

func (row subjectRow) toSubject() content.Subject {
	return content.Subject{
		ID:          plainID(row.ID),
		Title:       row.Title,
		Code:        row.Code,
		Field:       row.Field,
		Description: row.Description,
		Icon:        row.Icon,
		IsApproved:  row.IsApproved,
		RequestedBy: row.RequestedBy,
		CreatedAt:   row.CreatedAt,
	}
}

type subjectRepository struct {
	db *surrealdb.DB
}

var _ content.SubjectRepository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *surrealdb.DB) content.SubjectRepository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(_ context.Context, sub content.Subject) (content.Subject, error) {
	resp, err := repo.db.Query(
		"CREATE type::thing($tb, $id) CONTENT $data",
		map[string]interface{}{"tb": subjectTable, "id": sub.ID, "data": newSubjectRow(sub)},
	)
	if err != nil {
		return content.Subject{}, errors.Wrap(err, "creating subject")
	}
	rows, err := unmarshalQuery[subjectRow](resp)
	if err != nil {
		return content.Subject{}, err
	}
	if len(rows) == 0 {
		return content.Subject{}, errors.New("created subject not returned")
	}
	return rows[0].toSubject(), nil
}

func (repo *subjectRepository) GetSubjectByID(_ context.Context, id string) (content.Subject, error) {
	resp, err := repo.db.Query(
		"SELECT * FROM type::thing($tb, $id)",
		map[string]interface{}{"tb": subjectTable, "id": id},
	)
	if err != nil {
		return content.Subject{}, errors.Wrap(err, "getting subject")
	}
	rows, err := unmarshalQuery[subjectRow](resp)
	if err != nil {
		return content.Subject{}, err
	}
	if len(rows) == 0 {
		return content.Subject{}, content.ErrSubjectNotFound
	}
	return rows[0].toSubject(), nil
}

func (repo *subjectRepository) QuerySubjects(_ context.Context, approvedOnly bool) ([]content.Subject, error) {
	sql := "SELECT * FROM type::table($tb) ORDER BY created_at"
	if approvedOnly {
		sql = "SELECT * FROM type::table($tb) WHERE is_approved = true ORDER BY created_at"
	}
	resp, err := repo.db.Query(sql, map[string]interface{}{"tb": subjectTable})
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	rows, err := unmarshalQuery[subjectRow](resp)
	if err != nil {
		return nil, err
	}
	subs := make([]content.Subject, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.toSubject())
	}
	return subs, nil
}

func (repo *subjectRepository) SetSubjectApproved(_ context.Context, id string) (content.Subject, error) {
	resp, err := repo.db.Query(
		"UPDATE type::thing($tb, $id) MERGE { is_approved: true }",
		map[string]interface{}{"tb": subjectTable, "id": id},
	)
	if err != nil {
		return content.Subject{}, errors.Wrap(err, "approving subject")
	}
	rows, err := unmarshalQuery[subjectRow](resp)
	if err != nil {
		return content.Subject{}, err
	}
	if len(rows) == 0 {
		return content.Subject{}, content.ErrSubjectNotFound
	}
	return rows[0].toSubject(), nil
}

func (repo *subjectRepository) DeleteSubjectByID(_ context.Context, id string) error {
	if _, err := repo.db.Query(
		"DELETE type::thing($tb, $id)",
		map[string]interface{}{"tb": subjectTable, "id": id},
	); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return nil
}
