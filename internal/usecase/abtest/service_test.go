package abtest

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

type fakeVariantRepo struct {
	variants []*entities.ExtractionVariant
	results  []*entities.TestResult
}

func (f *fakeVariantRepo) Create(ctx context.Context, v *entities.ExtractionVariant) error {
	f.variants = append(f.variants, v)
	return nil
}
func (f *fakeVariantRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ExtractionVariant, error) {
	for _, v := range f.variants {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, entities.ErrVariantNotFound
}
func (f *fakeVariantRepo) FindActiveByModel(ctx context.Context, model string) (*entities.ExtractionVariant, error) {
	return nil, entities.ErrVariantNotFound
}
func (f *fakeVariantRepo) FindOldestActive(ctx context.Context) (*entities.ExtractionVariant, error) {
	return nil, entities.ErrVariantNotFound
}
func (f *fakeVariantRepo) List(ctx context.Context) ([]*entities.ExtractionVariant, error) {
	return f.variants, nil
}
func (f *fakeVariantRepo) CreateResult(ctx context.Context, r *entities.TestResult) error {
	f.results = append(f.results, r)
	return nil
}
func (f *fakeVariantRepo) FindResults(ctx context.Context, testID uuid.UUID) ([]*entities.TestResult, error) {
	var out []*entities.TestResult
	for _, r := range f.results {
		if r.TestID == testID {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestResults_Aggregates(t *testing.T) {
	repo := &fakeVariantRepo{}
	svc := NewService(repo)

	variant, err := svc.Create(context.Background(), "Default", "default", "Extract.", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	repo.results = []*entities.TestResult{
		entities.NewTestResult(variant.ID, uuid.New(), 80, 120, 4),
		entities.NewTestResult(variant.ID, uuid.New(), 90, 180, 6),
		entities.NewTestResult(uuid.New(), uuid.New(), 10, 10, 10), // other variant
	}

	results, agg, err := svc.Results(context.Background(), variant.ID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if len(results) != 2 || agg.TestCount != 2 {
		t.Fatalf("expected 2 results for variant, got %d (agg %d)", len(results), agg.TestCount)
	}
	if agg.AvgAccuracy != 85.0 {
		t.Fatalf("AvgAccuracy = %v, want 85.0", agg.AvgAccuracy)
	}
	// (120+180)/2 = 150 seconds = 2.5 minutes
	if agg.AvgProcessingTime != 2.5 {
		t.Fatalf("AvgProcessingTime = %v, want 2.5", agg.AvgProcessingTime)
	}
	if agg.AvgActionItemsRate != 5.0 {
		t.Fatalf("AvgActionItemsRate = %v, want 5.0", agg.AvgActionItemsRate)
	}
}

func TestResults_EmptyVariant(t *testing.T) {
	repo := &fakeVariantRepo{}
	svc := NewService(repo)

	variant, _ := svc.Create(context.Background(), "Fresh", "speed", "Extract quickly.", nil)
	results, agg, err := svc.Results(context.Background(), variant.ID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if len(results) != 0 || agg.TestCount != 0 || agg.AvgAccuracy != 0 {
		t.Fatalf("expected zeroed aggregate, got %+v", agg)
	}
}

func TestResults_UnknownVariant(t *testing.T) {
	svc := NewService(&fakeVariantRepo{})
	if _, _, err := svc.Results(context.Background(), uuid.New()); err != entities.ErrVariantNotFound {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}
