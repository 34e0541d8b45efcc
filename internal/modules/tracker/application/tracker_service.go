package application

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/captainhq/captain-backend/internal/modules/tracker/domain"
	"github.com/captainhq/captain-backend/internal/shared/infrastructure/localstore"
)

// ImportResult summarizes what an import did.
type ImportResult struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ExportContainer is the canonical export format, compatible with the
// legacy import shapes.
type ExportContainer struct {
	JobApplications []domain.Application `json:"jobApplications"`
	ExportedAt      string               `json:"exportedAt"`
}

// TrackerService owns the application collection: CRUD, import with
// normalization, and export.
type TrackerService struct {
	repo  domain.ApplicationRepository
	local *localstore.Store
	now   func() time.Time
}

func NewTrackerService(repo domain.ApplicationRepository, local *localstore.Store) *TrackerService {
	return &TrackerService{repo: repo, local: local, now: time.Now}
}

// Create stores a new application. Missing id, status and date get
// defaults. Bumps the new-entries-since-backup counter.
func (s *TrackerService) Create(ctx context.Context, userID uuid.UUID, app *domain.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = domain.StatusBookmarked
	}
	if app.AppliedDate == "" {
		app.AppliedDate = s.now().Format(domain.AppliedDateLayout)
	}
	if app.Tags == nil {
		app.Tags = domain.TagList{}
	}
	if app.Keywords == nil {
		app.Keywords = domain.KeywordList{}
	}
	app.UserID = userID
	app.CreatedAt = s.now()
	app.UpdatedAt = app.CreatedAt

	if err := s.repo.Create(ctx, app); err != nil {
		return err
	}

	if _, err := s.local.IncrCounter(ctx, userID, localstore.KeyNewEntries); err != nil {
		log.Printf("[Tracker] bump new-entry counter failed: %v", err)
	}
	s.mirror(ctx, userID)
	return nil
}

func (s *TrackerService) List(ctx context.Context, userID uuid.UUID) ([]domain.Application, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *TrackerService) Get(ctx context.Context, id string, userID uuid.UUID) (*domain.Application, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *TrackerService) Update(ctx context.Context, userID uuid.UUID, app *domain.Application) error {
	app.UserID = userID
	app.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, app); err != nil {
		return err
	}
	s.mirror(ctx, userID)
	return nil
}

func (s *TrackerService) Delete(ctx context.Context, id string, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.mirror(ctx, userID)
	return nil
}

// Import normalizes the raw file contents and merges them into the
// user's collection. Normalization completes fully in memory before the
// single persistence write; a failure anywhere leaves storage untouched.
func (s *TrackerService) Import(ctx context.Context, userID uuid.UUID, data []byte, strategy MergeStrategy) (*ImportResult, error) {
	value, err := Parse(data)
	if err != nil {
		return nil, err
	}

	rawRecords, err := CoerceToArray(value)
	if err != nil {
		return nil, err
	}

	now := s.now()
	incoming := make([]domain.Application, 0, len(rawRecords))
	for _, raw := range rawRecords {
		app, err := NormalizeRecord(raw, now)
		if err != nil {
			return nil, err
		}
		app.UserID = userID
		app.CreatedAt = now
		app.UpdatedAt = now
		incoming = append(incoming, app)
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Total: len(incoming)}

	if strategy == StrategyReplace {
		if err := s.repo.ReplaceAll(ctx, userID, incoming); err != nil {
			return nil, err
		}
		result.Imported = len(incoming)
	} else {
		merged := Merge(existing, incoming, StrategyMerge)
		added := merged[len(existing):]
		if err := s.repo.InsertMany(ctx, userID, added); err != nil {
			return nil, err
		}
		result.Imported = len(added)
		result.Skipped = result.Total - result.Imported
	}

	if result.Imported > 0 {
		if _, err := s.local.AddToCounter(ctx, userID, localstore.KeyNewEntries, int64(result.Imported)); err != nil {
			log.Printf("[Tracker] bump new-entry counter failed: %v", err)
		}
	}
	s.mirror(ctx, userID)
	return result, nil
}

// Export renders the user's collection in the canonical container.
func (s *TrackerService) Export(ctx context.Context, userID uuid.UUID) (*ExportContainer, error) {
	apps, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return &ExportContainer{
		JobApplications: apps,
		ExportedAt:      s.now().Format(time.RFC3339),
	}, nil
}

// SetResume attaches an uploaded resume URL to an application.
func (s *TrackerService) SetResume(ctx context.Context, id string, userID uuid.UUID, resumeURL string) error {
	app, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	app.Resume = resumeURL
	return s.Update(ctx, userID, app)
}

// mirror write-through persists the collection to the local adapter.
func (s *TrackerService) mirror(ctx context.Context, userID uuid.UUID) {
	apps, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		log.Printf("[Tracker] mirror read failed: %v", err)
		return
	}
	if err := s.local.Set(ctx, userID, localstore.KeyJobApplications, apps); err != nil {
		log.Printf("[Tracker] mirror write failed: %v", err)
	}
}
