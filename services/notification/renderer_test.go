package notification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskmos/models"

	"github.com/stretchr/testify/require"
)

var renderNow = time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

// fakeEventRepo keeps events in insertion order and records the delivery
// and feed projections CompleteRender would write transactionally.
type fakeEventRepo struct {
	events     []models.NotificationEvent
	deliveries []models.NotificationDelivery
	messages   []models.Message
	keys       map[string]bool
	listErr    error
	renderErr  error
}

func (f *fakeEventRepo) addPending(kind, taskID, stage string, payload models.EventPayload) string {
	id := fmt.Sprintf("ev-%d", len(f.events)+1)
	f.events = append(f.events, models.NotificationEvent{
		ID:        id,
		Kind:      kind,
		TaskID:    taskID,
		Stage:     stage,
		Payload:   payload,
		Status:    models.EventStatusCreated,
		CreatedAt: renderNow.Add(time.Duration(len(f.events)) * time.Second),
	})
	return id
}

func (f *fakeEventRepo) InsertDeadlineEvent(event *models.NotificationEvent) (bool, error) {
	if f.keys == nil {
		f.keys = make(map[string]bool)
	}
	key := event.TaskID + "|" + event.Stage
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	event.ID = f.addPending(models.KindTaskDeadlineReminder, event.TaskID, event.Stage, event.Payload)
	return true, nil
}

func (f *fakeEventRepo) InsertEvent(event *models.NotificationEvent) error {
	event.ID = f.addPending(event.Kind, event.TaskID, event.Stage, event.Payload)
	return nil
}

func (f *fakeEventRepo) ListOldestByStatus(status string, limit int) ([]models.NotificationEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.NotificationEvent
	for _, ev := range f.events {
		if ev.Status == status && len(out) < limit {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByStatus(status string, limit int) ([]models.NotificationEvent, error) {
	return f.ListOldestByStatus(status, limit)
}

func (f *fakeEventRepo) GetByID(id string) (*models.NotificationEvent, error) {
	for i := range f.events {
		if f.events[i].ID == id {
			return &f.events[i], nil
		}
	}
	return nil, nil
}

func (f *fakeEventRepo) CompleteRender(eventID, text string, now time.Time) error {
	if f.renderErr != nil {
		return f.renderErr
	}
	for i := range f.events {
		if f.events[i].ID != eventID {
			continue
		}
		if f.events[i].Status != models.EventStatusCreated {
			return fmt.Errorf("event %s is not pending", eventID)
		}
		f.events[i].Status = models.EventStatusRendered
		f.events[i].RenderedText = text
		f.events[i].RenderedAt = &now
		f.deliveries = append(f.deliveries, models.NotificationDelivery{
			ID: fmt.Sprintf("d-%d", len(f.deliveries)+1), EventID: eventID,
			Channel: models.ChannelInApp, Status: models.DeliveryStatusSent,
			SentAt: &now, CreatedAt: now,
		})
		f.messages = append(f.messages, models.Message{
			ID: fmt.Sprintf("m-%d", len(f.messages)+1), Role: models.RoleAssistant,
			Content: text, EventID: eventID, CreatedAt: now,
		})
		return nil
	}
	return fmt.Errorf("event %s not found", eventID)
}

func (f *fakeEventRepo) MarkFailed(eventID, errText string) error {
	for i := range f.events {
		if f.events[i].ID == eventID && f.events[i].Status == models.EventStatusCreated {
			f.events[i].Status = models.EventStatusFailed
			f.events[i].RenderedText = errText
		}
	}
	return nil
}

func (f *fakeEventRepo) byID(t *testing.T, id string) models.NotificationEvent {
	t.Helper()
	ev, err := f.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, ev)
	return *ev
}

// fakeGenerator serves scripted responses in call order.
type fakeGenerator struct {
	calls     int
	responses []genResult
}

type genResult struct {
	text string
	err  error
}

func (g *fakeGenerator) GenerateText(ctx context.Context, systemPrompt, userPayload string) (string, error) {
	res := genResult{text: "rendered text"}
	if g.calls < len(g.responses) {
		res = g.responses[g.calls]
	}
	g.calls++
	return res.text, res.err
}

func deadlinePayload(taskID, stage string) models.EventPayload {
	return models.EventPayload{
		Kind:  models.KindTaskDeadlineReminder,
		Stage: stage,
		Now:   renderNow.Format(time.RFC3339),
		Task:  &models.TaskSnapshot{ID: taskID, Title: "write report", Status: models.TaskStatusDoing},
	}
}

func newRenderService(events *fakeEventRepo, gen *fakeGenerator) *DefaultRenderService {
	return &DefaultRenderService{
		Events:    events,
		Generator: gen,
		Now:       func() time.Time { return renderNow },
	}
}

func TestRenderProjectsDeliveryAndFeed(t *testing.T) {
	events := &fakeEventRepo{}
	id := events.addPending(models.KindTaskDeadlineReminder, "t1", models.StageD0, deadlinePayload("t1", models.StageD0))
	gen := &fakeGenerator{responses: []genResult{{text: "Finish the report intro today."}}}
	svc := newRenderService(events, gen)

	rendered, err := svc.Render(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 1, rendered)

	ev := events.byID(t, id)
	require.Equal(t, models.EventStatusRendered, ev.Status)
	require.Equal(t, "Finish the report intro today.", ev.RenderedText)
	require.NotNil(t, ev.RenderedAt)
	require.Equal(t, renderNow, *ev.RenderedAt)

	require.Len(t, events.deliveries, 1)
	require.Equal(t, id, events.deliveries[0].EventID)
	require.Equal(t, models.ChannelInApp, events.deliveries[0].Channel)
	require.Equal(t, models.DeliveryStatusSent, events.deliveries[0].Status)

	require.Len(t, events.messages, 1)
	require.Equal(t, models.RoleAssistant, events.messages[0].Role)
	require.Equal(t, "Finish the report intro today.", events.messages[0].Content)
	require.Equal(t, id, events.messages[0].EventID)
}

func TestRenderHonorsBatchBound(t *testing.T) {
	events := &fakeEventRepo{}
	for i := 0; i < 5; i++ {
		taskID := fmt.Sprintf("t%d", i)
		events.addPending(models.KindTaskDeadlineReminder, taskID, models.StageD0, deadlinePayload(taskID, models.StageD0))
	}
	gen := &fakeGenerator{}
	svc := newRenderService(events, gen)

	rendered, err := svc.Render(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 3, rendered)
	require.Equal(t, 3, gen.calls)

	pending, err := events.ListOldestByStatus(models.EventStatusCreated, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
}

func TestRenderIsolatesPerEventFailures(t *testing.T) {
	events := &fakeEventRepo{}
	idA := events.addPending(models.KindTaskDeadlineReminder, "a", models.StageD1, deadlinePayload("a", models.StageD1))
	idB := events.addPending(models.KindTaskDeadlineReminder, "b", models.StageD0, deadlinePayload("b", models.StageD0))
	gen := &fakeGenerator{responses: []genResult{
		{err: fmt.Errorf("backend retries exhausted after 3 attempts: rate limited")},
		{text: "B is due today."},
	}}
	svc := newRenderService(events, gen)

	rendered, err := svc.Render(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 1, rendered)
	// No early abort: both events reached the backend.
	require.Equal(t, 2, gen.calls)

	evA := events.byID(t, idA)
	require.Equal(t, models.EventStatusFailed, evA.Status)
	require.Contains(t, evA.RenderedText, "rate limited")
	require.Nil(t, evA.RenderedAt)

	evB := events.byID(t, idB)
	require.Equal(t, models.EventStatusRendered, evB.Status)
	require.Len(t, events.deliveries, 1)
	require.Equal(t, idB, events.deliveries[0].EventID)
	require.Len(t, events.messages, 1)
}

func TestRenderEmptyTextIsFailure(t *testing.T) {
	events := &fakeEventRepo{}
	id := events.addPending(models.KindTaskDeadlineReminder, "t1", models.StageD0, deadlinePayload("t1", models.StageD0))
	gen := &fakeGenerator{responses: []genResult{{text: ""}}}
	svc := newRenderService(events, gen)

	rendered, err := svc.Render(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 0, rendered)

	ev := events.byID(t, id)
	require.Equal(t, models.EventStatusFailed, ev.Status)
	require.Contains(t, ev.RenderedText, "empty rendered text")
	require.Empty(t, events.deliveries)
	require.Empty(t, events.messages)
}

func TestRenderUnknownKindIsFailure(t *testing.T) {
	events := &fakeEventRepo{}
	id := events.addPending("mystery_kind", "", "", models.EventPayload{Kind: "mystery_kind"})
	gen := &fakeGenerator{}
	svc := newRenderService(events, gen)

	rendered, err := svc.Render(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 0, rendered)
	require.Equal(t, 0, gen.calls)

	ev := events.byID(t, id)
	require.Equal(t, models.EventStatusFailed, ev.Status)
	require.Contains(t, ev.RenderedText, "unknown event kind")
}

func TestRenderLeavesTerminalEventsAlone(t *testing.T) {
	events := &fakeEventRepo{}
	id := events.addPending(models.KindTaskDeadlineReminder, "t1", models.StageD0, deadlinePayload("t1", models.StageD0))
	gen := &fakeGenerator{}
	svc := newRenderService(events, gen)

	rendered, err := svc.Render(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 1, rendered)

	// A second batch sees no pending work; the terminal event is untouched.
	rendered, err = svc.Render(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 0, rendered)
	require.Equal(t, 1, gen.calls)
	require.Equal(t, models.EventStatusRendered, events.byID(t, id).Status)
	require.Len(t, events.deliveries, 1)
	require.Len(t, events.messages, 1)
}

func TestRenderBatchFetchErrorIsFatal(t *testing.T) {
	events := &fakeEventRepo{listErr: fmt.Errorf("connection reset")}
	svc := newRenderService(events, &fakeGenerator{})

	_, err := svc.Render(context.Background(), 10)
	require.Error(t, err)
}

func TestRenderFollowupUsesSummaryPrompt(t *testing.T) {
	events := &fakeEventRepo{}
	id := events.addPending(models.KindFollowupSummary, "", "", models.EventPayload{
		Kind:   models.KindFollowupSummary,
		Slot:   models.SlotMorning,
		Now:    renderNow.Format(time.RFC3339),
		Counts: &models.FollowupCounts{Overdue: 1, DueToday: 2, Doing: 3},
	})
	gen := &fakeGenerator{responses: []genResult{{text: "Morning: 2 tasks due today."}}}
	svc := newRenderService(events, gen)

	rendered, err := svc.Render(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 1, rendered)
	require.Equal(t, models.EventStatusRendered, events.byID(t, id).Status)
}
