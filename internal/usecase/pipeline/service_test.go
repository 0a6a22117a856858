package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/infrastructure/realtime"
	"github.com/meetscribe/meetscribe/pkg/ai"
)

// ---- fakes ----

type fakeMeetingRepo struct {
	mu            sync.Mutex
	statuses      map[uuid.UUID]entities.MeetingStatus
	transcription map[uuid.UUID]string
	durations     map[uuid.UUID]int
	failStatus    error
	failComplete  error
	stuck         []*entities.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{
		statuses:      make(map[uuid.UUID]entities.MeetingStatus),
		transcription: make(map[uuid.UUID]string),
		durations:     make(map[uuid.UUID]int),
	}
}

func (f *fakeMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error { return nil }
func (f *fakeMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return nil, entities.ErrMeetingNotFound
}
func (f *fakeMeetingRepo) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entities.Meeting, error) {
	return nil, entities.ErrMeetingNotFound
}
func (f *fakeMeetingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Meeting, error) {
	return nil, nil
}
func (f *fakeMeetingRepo) Search(ctx context.Context, userID uuid.UUID, q string) ([]*entities.Meeting, error) {
	return nil, nil
}
func (f *fakeMeetingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	if f.failStatus != nil {
		return f.failStatus
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}
func (f *fakeMeetingRepo) MarkCompleted(ctx context.Context, id uuid.UUID, text string, duration int) error {
	if f.failComplete != nil {
		return f.failComplete
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = entities.MeetingStatusCompleted
	f.transcription[id] = text
	f.durations[id] = duration
	return nil
}
func (f *fakeMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeMeetingRepo) CountByUserSince(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeMeetingRepo) FindStuckProcessing(ctx context.Context, cutoff time.Time) ([]*entities.Meeting, error) {
	return f.stuck, nil
}

func (f *fakeMeetingRepo) status(id uuid.UUID) entities.MeetingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[id]
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items []*entities.ActionItem
	fail  error
}

func (f *fakeItemRepo) CreateBatch(ctx context.Context, items []*entities.ActionItem) error {
	if f.fail != nil {
		return f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, items...)
	return nil
}
func (f *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	return nil, entities.ErrActionItemNotFound
}
func (f *fakeItemRepo) FindByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error) {
	return nil, nil
}
func (f *fakeItemRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ActionItem, error) {
	return nil, nil
}
func (f *fakeItemRepo) Update(ctx context.Context, item *entities.ActionItem) error { return nil }
func (f *fakeItemRepo) CountByUserSince(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeItemRepo) all() []*entities.ActionItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entities.ActionItem, len(f.items))
	copy(out, f.items)
	return out
}

type fakeVariantRepo struct {
	mu       sync.Mutex
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
	for _, v := range f.variants {
		if v.IsActive && v.Model == model {
			return v, nil
		}
	}
	return nil, entities.ErrVariantNotFound
}
func (f *fakeVariantRepo) FindOldestActive(ctx context.Context) (*entities.ExtractionVariant, error) {
	var oldest *entities.ExtractionVariant
	for _, v := range f.variants {
		if !v.IsActive {
			continue
		}
		if oldest == nil || v.CreatedAt.Before(oldest.CreatedAt) {
			oldest = v
		}
	}
	if oldest == nil {
		return nil, entities.ErrVariantNotFound
	}
	return oldest, nil
}
func (f *fakeVariantRepo) List(ctx context.Context) ([]*entities.ExtractionVariant, error) {
	return f.variants, nil
}
func (f *fakeVariantRepo) CreateResult(ctx context.Context, r *entities.TestResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return nil
}
func (f *fakeVariantRepo) FindResults(ctx context.Context, testID uuid.UUID) ([]*entities.TestResult, error) {
	return f.results, nil
}

type fakeTranscriber struct {
	text     string
	duration int
	err      error
}

func (f *fakeTranscriber) TranscribeFromReader(ctx context.Context, r io.Reader) (*ai.TranscriptionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ai.TranscriptionResult{Text: f.text, DurationSeconds: f.duration}, nil
}

type fakeExtractor struct {
	items []ai.ExtractedItem
	err   error
}

func (f *fakeExtractor) ExtractActionItems(ctx context.Context, transcript, model, prompt string) ([]ai.ExtractedItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}
func (f *fakeExtractor) GenerateDescription(ctx context.Context, itemText string) (string, error) {
	return "", nil
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	percents []int
	batches  []realtime.NewItemsEvent
	users    []uuid.UUID
}

func (f *fakeBroadcaster) PublishProgress(userID uuid.UUID, ev realtime.ProgressEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.percents = append(f.percents, ev.Percent)
	f.users = append(f.users, userID)
}
func (f *fakeBroadcaster) PublishNewItems(userID uuid.UUID, ev realtime.NewItemsEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, ev)
}

// ---- helpers ----

type testEnv struct {
	svc         *Service
	meetings    *fakeMeetingRepo
	items       *fakeItemRepo
	variants    *fakeVariantRepo
	broadcaster *fakeBroadcaster
	transcriber *fakeTranscriber
	extractor   *fakeExtractor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		meetings:    newFakeMeetingRepo(),
		items:       &fakeItemRepo{},
		variants:    &fakeVariantRepo{},
		broadcaster: &fakeBroadcaster{},
		transcriber: &fakeTranscriber{text: strings.Repeat("a", 500)},
		extractor:   &fakeExtractor{},
	}

	defaultVariant := entities.NewExtractionVariant("Default", "default", "Extract action items.")
	defaultVariant.CreatedAt = time.Now().Add(-time.Hour)
	enhanced := entities.NewExtractionVariant("Enhanced", "enhanced", "Extract action items carefully.")
	env.variants.variants = []*entities.ExtractionVariant{enhanced, defaultVariant}

	env.svc = NewService(env.meetings, env.items, env.variants, env.transcriber, env.extractor, env.broadcaster, nil, nil)
	env.svc.randFloat = func() float64 { return 0 }
	env.svc.openFile = func(path string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("audio-bytes")), nil
	}
	env.svc.removeFile = func(path string) error { return nil }
	return env
}

// ---- tests ----

func TestRun_EmitsProgressInOrder(t *testing.T) {
	env := newTestEnv(t)
	meetingID, userID := uuid.New(), uuid.New()

	if err := env.svc.Run(context.Background(), meetingID, userID, "/tmp/rec.mp3", "default"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []int{10, 30, 50, 70, 100}
	if len(env.broadcaster.percents) != len(want) {
		t.Fatalf("expected %d progress events, got %v", len(want), env.broadcaster.percents)
	}
	for i, p := range want {
		if env.broadcaster.percents[i] != p {
			t.Fatalf("progress[%d] = %d, want %d (all: %v)", i, env.broadcaster.percents[i], p, env.broadcaster.percents)
		}
	}
	for _, u := range env.broadcaster.users {
		if u != userID {
			t.Fatalf("event published for wrong user %s", u)
		}
	}
	if got := env.meetings.status(meetingID); got != entities.MeetingStatusCompleted {
		t.Fatalf("status = %s, want completed", got)
	}
}

func TestRun_PersistsExtractedItems(t *testing.T) {
	env := newTestEnv(t)
	meetingID, userID := uuid.New(), uuid.New()
	env.extractor.items = []ai.ExtractedItem{
		{Text: "Send report", Assignee: "Alice", Priority: "high", DueDate: "2026-09-01"},
		{Text: "Book venue", Priority: "not-a-priority"},
	}

	if err := env.svc.Run(context.Background(), meetingID, userID, "/tmp/rec.mp3", "default"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	items := env.items.all()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, it := range items {
		if it.MeetingID != meetingID || it.UserID != userID {
			t.Fatalf("item not scoped to meeting/user: %+v", it)
		}
	}
	if items[0].Priority != entities.PriorityHigh || *items[0].Assignee != "Alice" || *items[0].DueDate != "2026-09-01" {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	// Invalid priority coerces to medium; missing fields stay nil.
	if items[1].Priority != entities.PriorityMedium || items[1].Assignee != nil || items[1].DueDate != nil {
		t.Fatalf("unexpected second item %+v", items[1])
	}

	if len(env.broadcaster.batches) != 1 || len(env.broadcaster.batches[0].Items) != 2 {
		t.Fatalf("expected one batch event with 2 items, got %+v", env.broadcaster.batches)
	}
	// The event carries the persisted records themselves.
	batch := env.broadcaster.batches[0]
	if batch.MeetingID != meetingID.String() {
		t.Fatalf("batch event for wrong meeting %s", batch.MeetingID)
	}
	if batch.Items[0].ID != items[0].ID || batch.Items[0].Text != "Send report" {
		t.Fatalf("batch event does not carry the persisted records: %+v", batch.Items[0])
	}
	if batch.Items[1].ID != items[1].ID || batch.Items[1].Text != "Book venue" {
		t.Fatalf("batch event does not carry the persisted records: %+v", batch.Items[1])
	}
}

func TestRun_NoItemsMeansNoBatchEvent(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.items = nil

	if err := env.svc.Run(context.Background(), uuid.New(), uuid.New(), "/tmp/rec.mp3", "default"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(env.items.all()) != 0 {
		t.Fatalf("expected no items")
	}
	if len(env.broadcaster.batches) != 0 {
		t.Fatalf("batch event emitted for empty extraction: %+v", env.broadcaster.batches)
	}
	// A test result is still written for completed runs.
	if len(env.variants.results) != 1 {
		t.Fatalf("expected 1 test result, got %d", len(env.variants.results))
	}
}

func TestRun_TranscriptionFailure(t *testing.T) {
	env := newTestEnv(t)
	meetingID := uuid.New()
	env.transcriber.err = errors.New("upstream unavailable")

	err := env.svc.Run(context.Background(), meetingID, uuid.New(), "/tmp/rec.mp3", "default")
	if err == nil {
		t.Fatal("expected error")
	}

	if got := env.meetings.status(meetingID); got != entities.MeetingStatusFailed {
		t.Fatalf("status = %s, want failed", got)
	}
	if len(env.items.all()) != 0 {
		t.Fatal("action items created despite failure")
	}
	if len(env.variants.results) != 0 {
		t.Fatal("test result created despite failure before extraction")
	}
	for _, p := range env.broadcaster.percents {
		if p == 100 {
			t.Fatal("completion event emitted for failed run")
		}
	}
	if len(env.broadcaster.percents) == 0 || env.broadcaster.percents[0] != 10 {
		t.Fatalf("expected the accepted event to have fired, got %v", env.broadcaster.percents)
	}
}

func TestRun_ExtractionFailure(t *testing.T) {
	env := newTestEnv(t)
	meetingID := uuid.New()
	env.extractor.err = errors.New("model overloaded")

	if err := env.svc.Run(context.Background(), meetingID, uuid.New(), "/tmp/rec.mp3", "default"); err == nil {
		t.Fatal("expected error")
	}
	if got := env.meetings.status(meetingID); got != entities.MeetingStatusFailed {
		t.Fatalf("status = %s, want failed", got)
	}
	if len(env.variants.results) != 0 {
		t.Fatal("test result created for failed run")
	}
}

func TestRun_ConcreteScenario(t *testing.T) {
	env := newTestEnv(t)
	meetingID, userID := uuid.New(), uuid.New()
	env.transcriber.text = strings.Repeat("x", 500)
	env.extractor.items = []ai.ExtractedItem{
		{Text: "item one", Priority: "high"},
		{Text: "item two", Priority: "medium"},
		{Text: "item three", Priority: "low"},
	}

	if err := env.svc.Run(context.Background(), meetingID, userID, "/tmp/standup.mp3", "enhanced"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := env.meetings.status(meetingID); got != entities.MeetingStatusCompleted {
		t.Fatalf("status = %s", got)
	}

	items := env.items.all()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	wantPriorities := []entities.ActionItemPriority{entities.PriorityHigh, entities.PriorityMedium, entities.PriorityLow}
	for i, p := range wantPriorities {
		if items[i].Priority != p {
			t.Fatalf("items[%d].Priority = %s, want %s", i, items[i].Priority, p)
		}
	}

	if len(env.variants.results) != 1 {
		t.Fatalf("expected 1 test result, got %d", len(env.variants.results))
	}
	res := env.variants.results[0]
	// 3 items over 500 chars is 6 items per 1000 chars.
	if res.ActionItemsFound != 6 {
		t.Fatalf("ActionItemsFound = %d, want 6", res.ActionItemsFound)
	}
	// The enhanced variant was selected, not the fallback.
	enhanced, _ := env.variants.FindActiveByModel(context.Background(), "enhanced")
	if res.TestID != enhanced.ID {
		t.Fatalf("result references variant %s, want enhanced %s", res.TestID, enhanced.ID)
	}
}

func TestRun_NoDedupAcrossDuplicateRuns(t *testing.T) {
	env := newTestEnv(t)
	meetingID, userID := uuid.New(), uuid.New()
	env.extractor.items = []ai.ExtractedItem{{Text: "repeated"}}

	for i := 0; i < 2; i++ {
		if err := env.svc.Run(context.Background(), meetingID, userID, "/tmp/rec.mp3", "default"); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}

	// Duplicate triggers are not deduplicated: two runs mean two results
	// and doubled action items.
	if len(env.variants.results) != 2 {
		t.Fatalf("expected 2 test results, got %d", len(env.variants.results))
	}
	if len(env.items.all()) != 2 {
		t.Fatalf("expected 2 items, got %d", len(env.items.all()))
	}
}

func TestRun_UnmatchedSelectorFallsBackToOldestActive(t *testing.T) {
	env := newTestEnv(t)

	if err := env.svc.Run(context.Background(), uuid.New(), uuid.New(), "/tmp/rec.mp3", "no-such-model"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	oldest, _ := env.variants.FindOldestActive(context.Background())
	if env.variants.results[0].TestID != oldest.ID {
		t.Fatalf("fallback selected %s, want oldest active %s", env.variants.results[0].TestID, oldest.ID)
	}
}

func TestRun_FileDeletionFailureIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	meetingID := uuid.New()
	env.svc.removeFile = func(path string) error { return errors.New("permission denied") }

	if err := env.svc.Run(context.Background(), meetingID, uuid.New(), "/tmp/rec.mp3", "default"); err != nil {
		t.Fatalf("deletion failure must not fail the run: %v", err)
	}
	if got := env.meetings.status(meetingID); got != entities.MeetingStatusCompleted {
		t.Fatalf("status = %s, want completed", got)
	}
	if env.broadcaster.percents[len(env.broadcaster.percents)-1] != 100 {
		t.Fatal("completion event missing")
	}
}

func TestAccuracyScore_Bounds(t *testing.T) {
	env := newTestEnv(t)

	lengths := []int{0, 1, 500, 1000, 5000, 100000}
	counts := []int{0, 1, 3, 10, 50}
	randoms := []float64{0, 0.5, 0.999999}

	for _, r := range randoms {
		r := r
		env.svc.randFloat = func() float64 { return r }
		for _, l := range lengths {
			for _, c := range counts {
				score := env.svc.accuracyScore(l, c)
				if score < 70 || score > 140 {
					t.Fatalf("score %d out of [70,140] for len=%d count=%d rand=%f", score, l, c, r)
				}
			}
		}
	}
}

func TestItemDensity(t *testing.T) {
	if got := itemDensity(500, 3); got != 6 {
		t.Fatalf("density(500,3) = %d, want 6", got)
	}
	if got := itemDensity(0, 0); got != 0 {
		t.Fatalf("density(0,0) = %d, want 0", got)
	}
	if got := itemDensity(0, 5); got != 0 {
		t.Fatalf("density(0,5) = %d, want 0", got)
	}
}
