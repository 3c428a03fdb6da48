package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	apperrors "dn-client/internal/common/errors"
	"dn-client/internal/common/logger"
	"dn-client/internal/models"
	"dn-client/internal/temporal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uuidA = "6f1c2d3e-0000-4000-8000-00000000000a"
	uuidB = "6f1c2d3e-0000-4000-8000-00000000000b"
)

type fakeAPI struct {
	mu sync.Mutex

	listFn   func(ctx context.Context, p models.ListParams) ([]models.OccurrenceRow, error)
	info     *models.InfoResponse
	infoErr  error
	create   *models.CreateResponse
	del      *models.DeleteResponse
	delErr   error
	created  []models.CreateRequest
	deleted  []string
	infoHits int
}

func (f *fakeAPI) List(ctx context.Context, p models.ListParams) ([]models.OccurrenceRow, error) {
	return f.listFn(ctx, p)
}

func (f *fakeAPI) Info(ctx context.Context, uuid string) (*models.InfoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoHits++
	return f.info, f.infoErr
}

func (f *fakeAPI) Create(ctx context.Context, req models.CreateRequest) (*models.CreateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return f.create, nil
}

func (f *fakeAPI) Delete(ctx context.Context, uuid string) (*models.DeleteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, uuid)
	return f.del, f.delErr
}

type fakeSchemas map[string]models.NotificationTypeSchema

func (f fakeSchemas) FindSchema(_ context.Context, typeID string) (models.NotificationTypeSchema, error) {
	s, ok := f[typeID]
	if !ok {
		return models.NotificationTypeSchema{}, apperrors.NewSchemaNotFoundError(typeID)
	}
	return s, nil
}

func testSchemas() fakeSchemas {
	return fakeSchemas{
		"ONCE": {TypeID: "ONCE", Arguments: []models.ArgumentSpec{
			{Kind: models.KindDatetime, Label: "Send time"},
			{Kind: models.KindTextarea, Label: "Message"},
		}},
		"COUNTED": {TypeID: "COUNTED", Arguments: []models.ArgumentSpec{
			{Kind: models.KindText, Label: "Title"},
			{Kind: models.KindInteger, Label: "Repeat count"},
		}},
	}
}

func staticList(rows ...models.OccurrenceRow) func(context.Context, models.ListParams) ([]models.OccurrenceRow, error) {
	return func(context.Context, models.ListParams) ([]models.OccurrenceRow, error) {
		return rows, nil
	}
}

func occ(uuid, dt, content string) models.OccurrenceRow {
	return models.OccurrenceRow{Name: "ONCE", UUID: uuid, Content: content, UTCDatetime: dt}
}

func newOrchestrator(t *testing.T, api API) *Orchestrator {
	athens, err := time.LoadLocation("Europe/Athens")
	require.NoError(t, err)
	return New(api, testSchemas(), athens, WithLogger(logger.NewTestLogger(t)))
}

func TestCreate_SubmitsCoercedArguments(t *testing.T) {
	api := &fakeAPI{create: &models.CreateResponse{OK: true, UUID: uuidA}}
	o := newOrchestrator(t, api)

	id, err := o.Create(context.Background(), "ONCE", []models.RawValue{"2026-01-12T23:30", "Take out the bins"})
	require.NoError(t, err)
	assert.Equal(t, uuidA, id)

	require.Len(t, api.created, 1)
	assert.Equal(t, "ONCE", api.created[0].Type)
	assert.Equal(t, []models.TypedArgumentValue{
		models.InstantValue("2026-01-12T21:30:00Z"),
		models.TextValue(models.KindTextarea, "Take out the bins"),
	}, api.created[0].Arguments)
}

func TestCreate_ValidationFailureSkipsNetwork(t *testing.T) {
	api := &fakeAPI{create: &models.CreateResponse{OK: true, UUID: uuidA}}
	o := newOrchestrator(t, api)

	_, err := o.Create(context.Background(), "COUNTED", []models.RawValue{"Stretch", "3.5"})
	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Equal(t, "Repeat count must be an integer.", stdErr.Message)
	assert.Empty(t, api.created)

	_, err = o.Create(context.Background(), "COUNTED", []models.RawValue{"Stretch"})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidationFailed))
	assert.Empty(t, api.created)
}

func TestCreate_UnknownType(t *testing.T) {
	o := newOrchestrator(t, &fakeAPI{})
	_, err := o.Create(context.Background(), "WEEKLY", nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeSchemaNotFound))
}

func TestCreate_ServerRejectionIsVerbatim(t *testing.T) {
	api := &fakeAPI{create: &models.CreateResponse{OK: false, Message: "DATETIME must be in the future (UTC)."}}
	o := newOrchestrator(t, api)

	_, err := o.Create(context.Background(), "ONCE", []models.RawValue{"2020-01-01T10:00", "late"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeServerRejected, apperrors.CodeOf(err))
	assert.Equal(t, "DATETIME must be in the future (UTC).", apperrors.UserMessage(err))
	assert.Len(t, api.created, 1, "no retry")
}

func TestInspect_ClassifiesRows(t *testing.T) {
	api := &fakeAPI{info: &models.InfoResponse{
		OK:           true,
		Notification: models.NotificationRecord{UUID: uuidA, Type: "30_MIN_BEFORE_REPEAT", ActiveStatus: true},
		Rows: []models.OccurrenceRow{
			{Name: "30_MIN_BEFORE_REPEAT (sent)", UUID: uuidA, UTCDatetime: "2026-03-01T09:30:00Z"},
			{Name: "30_MIN_BEFORE_REPEAT", UUID: uuidA, UTCDatetime: "2026-03-01T10:00:00Z"},
			{Name: "30_MIN_BEFORE_REPEAT", UUID: uuidA, UTCDatetime: "2026-03-01T10:05:00Z"},
			{Name: "broken", UUID: uuidA, UTCDatetime: "soon"},
		},
	}}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	o := New(api, testSchemas(), time.UTC, WithClock(func() time.Time { return now }))

	got, err := o.Inspect(context.Background(), uuidA)
	require.NoError(t, err)
	require.Len(t, got.Rows, 4)
	assert.Equal(t, temporal.StatusPassed, got.Rows[0].Status)
	assert.Equal(t, temporal.StatusPassed, got.Rows[1].Status, "an occurrence exactly at now has passed")
	assert.Equal(t, temporal.StatusUpcoming, got.Rows[2].Status)
	assert.Equal(t, StatusUnknown, got.Rows[3].Status)
	assert.Equal(t, "30_MIN_BEFORE_REPEAT", got.Notification.Type)
}

func TestInspect_Errors(t *testing.T) {
	o := newOrchestrator(t, &fakeAPI{infoErr: apperrors.NewTransportError("info", 404)})

	_, err := o.Inspect(context.Background(), "")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingPrecondition))

	_, err = o.Inspect(context.Background(), uuidA)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTransport))
	assert.Contains(t, apperrors.UserMessage(err), "404")

	rejecting := newOrchestrator(t, &fakeAPI{info: &models.InfoResponse{OK: false, Message: "UUID not found."}})
	_, err = rejecting.Inspect(context.Background(), uuidA)
	assert.Equal(t, "UUID not found.", apperrors.UserMessage(err))
}

func TestBrowse_DedupSortFilter(t *testing.T) {
	api := &fakeAPI{listFn: staticList(
		models.OccurrenceRow{Name: models.RowNameSent, UUID: uuidA, Content: "water plants", UTCDatetime: "2026-01-01T08:00:00Z"},
		occ(uuidA, "2026-01-08T08:00:00Z", "water plants"),
		occ(uuidB, "2026-01-05T08:00:00Z", "call the plumber"),
	)}
	o := newOrchestrator(t, api)

	rows, err := o.Browse(context.Background(), BrowseQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uuidB, rows[0].UUID)
	assert.Equal(t, "2026-01-01T08:00:00Z", rows[1].UTCDatetime, "first occurrence per uuid is kept")
	assert.Equal(t, rows, o.Displayed())

	rows, err = o.Browse(context.Background(), BrowseQuery{ShowAll: true})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "2026-01-08T08:00:00Z", rows[0].UTCDatetime)

	rows, err = o.Browse(context.Background(), BrowseQuery{Content: "PLUMB"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uuidB, rows[0].UUID)
}

func TestBrowse_DiscardsStaleResponse(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	api := &fakeAPI{listFn: func(ctx context.Context, p models.ListParams) ([]models.OccurrenceRow, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
			return []models.OccurrenceRow{occ(uuidA, "2026-01-01T00:00:00Z", "old")}, nil
		}
		return []models.OccurrenceRow{occ(uuidB, "2026-02-01T00:00:00Z", "new")}, nil
	}}
	o := newOrchestrator(t, api)

	staleErr := make(chan error, 1)
	go func() {
		_, err := o.Browse(context.Background(), BrowseQuery{})
		staleErr <- err
	}()
	<-entered

	rows, err := o.Browse(context.Background(), BrowseQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uuidB, rows[0].UUID)

	close(release)
	err = <-staleErr
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStaleResponse))

	displayed := o.Displayed()
	require.Len(t, displayed, 1)
	assert.Equal(t, uuidB, displayed[0].UUID, "stale response must not overwrite newer state")
}

func TestBrowse_PropagatesListError(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context, models.ListParams) ([]models.OccurrenceRow, error) {
		return nil, apperrors.NewTransportError("list", 500)
	}}
	o := newOrchestrator(t, api)
	_, err := o.Browse(context.Background(), BrowseQuery{})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTransport))
}

func TestDelete_TwoStep(t *testing.T) {
	api := &fakeAPI{
		listFn: staticList(occ(uuidA, "2026-01-01T00:00:00Z", "a"), occ(uuidB, "2026-01-02T00:00:00Z", "b")),
		del:    &models.DeleteResponse{OK: true},
		info:   &models.InfoResponse{OK: true},
	}
	o := newOrchestrator(t, api)
	ctx := context.Background()

	_, err := o.Browse(ctx, BrowseQuery{})
	require.NoError(t, err)

	intent, err := o.RequestDelete(uuidA)
	require.NoError(t, err)
	assert.Equal(t, uuidA, intent.UUID)
	assert.Len(t, intent.Rows, 1)
	assert.Contains(t, intent.Describe(), uuidA)
	assert.Empty(t, api.deleted, "nothing is sent before confirmation")

	require.NoError(t, o.ConfirmDelete(ctx, intent))
	assert.Equal(t, []string{uuidA}, api.deleted)

	displayed := o.Displayed()
	require.Len(t, displayed, 1)
	assert.Equal(t, uuidB, displayed[0].UUID)

	err = o.ConfirmDelete(ctx, intent)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingPrecondition), "intent is single use")
	assert.Len(t, api.deleted, 1)

	_, err = o.Inspect(ctx, uuidA)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotificationNotFound))
	assert.Zero(t, api.infoHits, "tombstoned uuid needs no network call")

	_, err = o.RequestDelete(uuidA)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotificationNotFound))

	rows, err := o.Browse(ctx, BrowseQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1, "deleted uuid stays out of later listings")
	assert.Equal(t, uuidB, rows[0].UUID)
}

func TestDelete_FailureKeepsIntent(t *testing.T) {
	api := &fakeAPI{
		listFn: staticList(occ(uuidA, "2026-01-01T00:00:00Z", "a")),
		del:    &models.DeleteResponse{OK: false, Message: "UUID not found."},
	}
	o := newOrchestrator(t, api)
	ctx := context.Background()
	_, _ = o.Browse(ctx, BrowseQuery{})

	intent, err := o.RequestDelete(uuidA)
	require.NoError(t, err)

	err = o.ConfirmDelete(ctx, intent)
	assert.Equal(t, "UUID not found.", apperrors.UserMessage(err))
	assert.Len(t, o.Displayed(), 1, "rows stay until a delete succeeds")

	api.del = nil
	api.delErr = apperrors.NewRequestFailedError("delete", errors.New("connection refused"))
	err = o.ConfirmDelete(ctx, intent)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTransport))

	api.delErr = nil
	api.del = &models.DeleteResponse{OK: true}
	require.NoError(t, o.ConfirmDelete(ctx, intent))
	assert.Empty(t, o.Displayed())
}

func TestRequestDelete_Preconditions(t *testing.T) {
	o := newOrchestrator(t, &fakeAPI{})

	_, err := o.RequestDelete("")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingPrecondition))

	_, err = o.RequestDelete("not-a-uuid")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingPrecondition))

	err = o.ConfirmDelete(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingPrecondition))
}

func TestCancelDelete(t *testing.T) {
	api := &fakeAPI{del: &models.DeleteResponse{OK: true}}
	o := newOrchestrator(t, api)

	intent, err := o.RequestDelete(uuidA)
	require.NoError(t, err)
	o.CancelDelete(intent)

	err = o.ConfirmDelete(context.Background(), intent)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingPrecondition))
	assert.Empty(t, api.deleted)
}

func TestSequencer(t *testing.T) {
	var s Sequencer
	assert.Equal(t, uint64(0), s.Latest())
	a := s.Next()
	b := s.Next()
	assert.Less(t, a, b)
	assert.False(t, s.IsLatest(a))
	assert.True(t, s.IsLatest(b))
}
