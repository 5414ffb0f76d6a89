package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core/content"
)

var (
	// errors
	ErrNotFound = errors.New("subscription not found")
)

type (
	Repository interface {
		CreateSubscription(ctx context.Context, sub Subscription) (Subscription, error)
		GetSubscription(ctx context.Context, userID, subjectID string) (Subscription, error)
		QuerySubscriptionsByUser(ctx context.Context, userID string) ([]Subscription, error)
		DeleteSubscription(ctx context.Context, userID, subjectID string) error
	}

	ServiceInterface interface {
		Subscribe(ctx context.Context, userID, subjectID string) (Subscription, error)
		List(ctx context.Context, userID string) ([]Subscription, error)
		Unsubscribe(ctx context.Context, userID, subjectID string) error
	}

	Service struct {
		repo     Repository
		subjects content.SubjectRepository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, subjects content.SubjectRepository) *Service {
	return &Service{repo: repo, subjects: subjects}
}

// Subscribe adds a subject to the user's personal list, snapshotting its
// display fields. Idempotent: an existing (userID, subjectID) pair is
// returned as-is, never duplicated.
func (svc *Service) Subscribe(ctx context.Context, userID, subjectID string) (Subscription, error) {
	if existing, err := svc.repo.GetSubscription(ctx, userID, subjectID); err == nil {
		return existing, nil
	} else if errors.Cause(err) != ErrNotFound {
		return Subscription{}, errors.Wrap(err, "checking existing subscription")
	}

	subj, err := svc.subjects.GetSubjectByID(ctx, subjectID)
	if err != nil {
		return Subscription{}, err
	}

	sub := Subscription{
		ID:           uuid.New().String(),
		UserID:       userID,
		SubjectID:    subj.ID,
		SubjectTitle: subj.Title,
		SubjectDesc:  subj.Description,
		SubjectIcon:  subj.Icon,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateSubscription(ctx, sub)
}

// List returns the user's subscriptions with ghosts filtered out: a
// subscription whose subject no longer exists in the live collection is
// dropped. Storage does not guarantee referential integrity, so the check
// happens here on every read.
func (svc *Service) List(ctx context.Context, userID string) ([]Subscription, error) {
	subs, err := svc.repo.QuerySubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	live := make([]Subscription, 0, len(subs))
	for _, sub := range subs {
		if _, err = svc.subjects.GetSubjectByID(ctx, sub.SubjectID); err != nil {
			if errors.Cause(err) == content.ErrSubjectNotFound {
				continue // ghost
			}
			return nil, errors.Wrap(err, "checking subject liveness")
		}
		live = append(live, sub)
	}
	return live, nil
}

// Unsubscribe removes the pair; removing an absent pair is a no-op.
func (svc *Service) Unsubscribe(ctx context.Context, userID, subjectID string) error {
	if err := svc.repo.DeleteSubscription(ctx, userID, subjectID); err != nil && errors.Cause(err) != ErrNotFound {
		return err
	}
	return nil
}
