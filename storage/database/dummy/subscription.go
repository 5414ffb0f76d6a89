package dummydb

import (
	"context"
	"sort"

	"github.com/opennotes/opennotes/core/subscription"
)

type subscriptionRepository struct {
	db *subscriptionTable
}

var _ subscription.Repository = (*subscriptionRepository)(nil) // interface compliance check

func NewSubscriptionRepository(db *DB) subscription.Repository {
	return &subscriptionRepository{db: db.subscription}
}

func (repo *subscriptionRepository) CreateSubscription(_ context.Context, sub subscription.Subscription) (subscription.Subscription, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *subscriptionRepository) GetSubscription(_ context.Context, userID, subjectID string) (subscription.Subscription, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sub := range repo.db.table {
		if sub.UserID == userID && sub.SubjectID == subjectID {
			return *sub, nil
		}
	}
	return subscription.Subscription{}, subscription.ErrNotFound
}

func (repo *subscriptionRepository) QuerySubscriptionsByUser(_ context.Context, userID string) ([]subscription.Subscription, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var subs []subscription.Subscription
	for _, sub := range repo.db.table {
		if sub.UserID == userID {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.Before(subs[j].CreatedAt) })
	return subs, nil
}

func (repo *subscriptionRepository) DeleteSubscription(_ context.Context, userID, subjectID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, sub := range repo.db.table {
		if sub.UserID == userID && sub.SubjectID == subjectID {
			delete(repo.db.table, id)
			return nil
		}
	}
	return subscription.ErrNotFound
}
