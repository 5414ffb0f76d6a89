package surrealrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/surrealdb/surrealdb.go"

	"github.com/opennotes/opennotes/core/subscription"
)

type subscriptionRow struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"user_id"`
	SubjectID    string    `json:"subject_id"`
	SubjectTitle string    `json:"subject_title"`
	SubjectDesc  string    `json:"subject_desc,omitempty"`
	SubjectIcon  string    `json:"subject_icon,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newSubscriptionRow(sub subscription.Subscription) subscriptionRow {
	return subscriptionRow{
		UserID:       sub.UserID,
		SubjectID:    sub.SubjectID,
		SubjectTitle: sub.SubjectTitle,
		SubjectDesc:  sub.SubjectDesc,
		SubjectIcon:  sub.SubjectIcon,
		CreatedAt:    sub.CreatedAt,
	}
}

func (row subscriptionRow) toSubscription() subscription.Subscription {
	return subscription.Subscription{
		ID:           plainID(row.ID),
		UserID:       row.UserID,
		SubjectID:    row.SubjectID,
		SubjectTitle: row.SubjectTitle,
		SubjectDesc:  row.SubjectDesc,
		SubjectIcon:  row.SubjectIcon,
		CreatedAt:    row.CreatedAt,
	}
}

type subscriptionRepository struct {
	db *surrealdb.DB
}

var _ subscription.Repository = (*subscriptionRepository)(nil) // interface compliance check

func NewSubscriptionRepository(db *surrealdb.DB) subscription.Repository {
	return &subscriptionRepository{db: db}
}

func (repo *subscriptionRepository) CreateSubscription(_ context.Context, sub subscription.Subscription) (subscription.Subscription, error) {
	resp, err := repo.db.Query(
		"CREATE type::thing($tb, $id) CONTENT $data",
		map[string]interface{}{"tb": subscriptionTable, "id": sub.ID, "data": newSubscriptionRow(sub)},
	)
	if err != nil {
		return subscription.Subscription{}, errors.Wrap(err, "creating subscription")
	}
	rows, err := unmarshalQuery[subscriptionRow](resp)
	if err != nil {
		return subscription.Subscription{}, err
	}
	if len(rows) == 0 {
		return subscription.Subscription{}, errors.New("created subscription not returned")
	}
	return rows[0].toSubscription(), nil
}

func (repo *subscriptionRepository) GetSubscription(_ context.Context, userID, subjectID string) (subscription.Subscription, error) {
	resp, err := repo.db.Query(
		"SELECT * FROM type::table($tb) WHERE user_id = $user AND subject_id = $subject",
		map[string]interface{}{"tb": subscriptionTable, "user": userID, "subject": subjectID},
	)
	if err != nil {
		return subscription.Subscription{}, errors.Wrap(err, "getting subscription")
	}
	rows, err := unmarshalQuery[subscriptionRow](resp)
	if err != nil {
		return subscription.Subscription{}, err
	}
	if len(rows) == 0 {
		return subscription.Subscription{}, subscription.ErrNotFound
	}
	return rows[0].toSubscription(), nil
}

func (repo *subscriptionRepository) QuerySubscriptionsByUser(_ context.Context, userID string) ([]subscription.Subscription, error) {
	resp, err := repo.db.Query(
		"SELECT * FROM type::table($tb) WHERE user_id = $user ORDER BY created_at",
		map[string]interface{}{"tb": subscriptionTable, "user": userID},
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying subscriptions")
	}
	rows, err := unmarshalQuery[subscriptionRow](resp)
	if err != nil {
		return nil, err
	}
	subs := make([]subscription.Subscription, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.toSubscription())
	}
	return subs, nil
}

func (repo *subscriptionRepository) DeleteSubscription(_ context.Context, userID, subjectID string) error {
	if _, err := repo.db.Query(
		"DELETE FROM type::table($tb) WHERE user_id = $user AND subject_id = $subject",
		map[string]interface{}{"tb": subscriptionTable, "user": userID, "subject": subjectID},
	); err != nil {
		return errors.Wrap(err, "deleting subscription")
	}
	return nil
}
