package content

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SeedSubjects is the built-in starter taxonomy. It is inserted pre-approved
// by the admin CLI so a fresh deployment is browsable before the first
// community subject request comes in.
var SeedSubjects = []NewSubject{
	{Title: "Computer Science", Field: "Engineering", Icon: "💻", Description: "Programming, Algorithms, and Systems."},
	{Title: "Mathematics", Field: "Science", Icon: "📐", Description: "Calculus, Algebra, and Statistics."},
	{Title: "Drone Technology", Field: "Engineering", Icon: "🚁", Description: "Aerodynamics, Control Systems, and Sensors."},
}

// Seed inserts the built-in taxonomy, skipping titles that already exist in
// the live collection. Returns the subjects actually inserted.
func (svc *Service) Seed(ctx context.Context) ([]Subject, error) {
	existing, err := svc.subjects.QuerySubjects(ctx, false /* approvedOnly */)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]bool, len(existing))
	for _, sub := range existing {
		titles[sub.Title] = true
	}

	var inserted []Subject
	for _, ns := range SeedSubjects {
		if titles[ns.Title] {
			continue
		}
		sub := Subject{
			ID:          uuid.New().String(),
			Title:       ns.Title,
			Field:       ns.Field,
			Description: ns.Description,
			Icon:        ns.Icon,
			IsApproved:  true, // curated set ships pre-approved
			CreatedAt:   time.Now().UTC(),
		}
		sub, err = svc.subjects.CreateSubject(ctx, sub)
		if err != nil {
			return inserted, err
		}
		inserted = append(inserted, sub)
	}
	return inserted, nil
}
