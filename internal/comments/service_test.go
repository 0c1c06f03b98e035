package comments

import (
	"context"
	"testing"

	"crm_backend/internal/events"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	items []Comment
}

func (m *memStore) Create(_ context.Context, p CreateParams) (Comment, error) {
	c := Comment{ID: uuid.New(), LeadID: p.LeadID, DealID: p.DealID, AuthorID: p.AuthorID, AuthorName: p.AuthorName, Text: p.Text}
	m.items = append(m.items, c)
	return c, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (Comment, error) {
	for _, c := range m.items {
		if c.ID == id {
			return c, nil
		}
	}
	return Comment{}, ErrNotFound
}

func (m *memStore) UpdateText(_ context.Context, id uuid.UUID, text string) (Comment, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Text = text
			return m.items[i], nil
		}
	}
	return Comment{}, ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListByLead mirrors the store ordering: newest first.
func (m *memStore) ListByLead(_ context.Context, leadID uuid.UUID) ([]Comment, error) {
	out := []Comment{}
	for i := len(m.items) - 1; i >= 0; i-- {
		if c := m.items[i]; c.LeadID != nil && *c.LeadID == leadID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ListByDeal(_ context.Context, dealID uuid.UUID) ([]Comment, error) {
	out := []Comment{}
	for i := len(m.items) - 1; i >= 0; i-- {
		if c := m.items[i]; c.DealID != nil && *c.DealID == dealID {
			out = append(out, c)
		}
	}
	return out, nil
}

type leadDirectory map[uuid.UUID]LeadRef

func (d leadDirectory) LeadRef(_ context.Context, id uuid.UUID) (LeadRef, error) {
	ref, ok := d[id]
	if !ok {
		return LeadRef{}, ErrLeadNotFound
	}
	return ref, nil
}

type authorDirectory map[uuid.UUID]string

func (d authorDirectory) MemberName(_ context.Context, id uuid.UUID) (string, error) {
	return d[id], nil
}

type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.events = append(b.events, e)
}

func TestLeadCommentPublishesNoteAdded(t *testing.T) {
	leadID, ownerID, authorID := uuid.New(), uuid.New(), uuid.New()
	bus := &recordingBus{}
	svc := NewService(&memStore{}, leadDirectory{leadID: {Name: "Ada Lovelace", AssignedTo: &ownerID}},
		authorDirectory{authorID: "Grace"}, bus, logger.Discard())

	resp, err := svc.Create(context.Background(), &authorID, CreateCommentRequest{LeadID: &leadID, Text: "<b>Called</b> twice"})
	require.NoError(t, err)
	assert.Equal(t, "Called twice", resp.Text)
	assert.Equal(t, "Grace", resp.AuthorName)

	require.Len(t, bus.events, 1)
	note, ok := bus.events[0].(events.NoteAdded)
	require.True(t, ok)
	assert.Equal(t, leadID, note.LeadID)
	assert.Equal(t, "Ada Lovelace", note.LeadName)
	assert.Equal(t, resp.ID, note.CommentID)
	assert.Equal(t, &ownerID, note.AssignedTo)
}

func TestDealCommentPublishesNothing(t *testing.T) {
	dealID := uuid.New()
	bus := &recordingBus{}
	svc := NewService(&memStore{}, leadDirectory{}, nil, bus, logger.Discard())

	_, err := svc.Create(context.Background(), nil, CreateCommentRequest{DealID: &dealID, Text: "Pricing sent"})
	require.NoError(t, err)
	assert.Empty(t, bus.events)
}

func TestCreateRequiresExactlyOneTarget(t *testing.T) {
	leadID, dealID := uuid.New(), uuid.New()
	svc := NewService(&memStore{}, leadDirectory{leadID: {}}, nil, &recordingBus{}, logger.Discard())
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, CreateCommentRequest{Text: "orphan"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Create(ctx, nil, CreateCommentRequest{LeadID: &leadID, DealID: &dealID, Text: "both"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreateOnUnknownLead(t *testing.T) {
	leadID := uuid.New()
	store := &memStore{}
	svc := NewService(store, leadDirectory{}, nil, &recordingBus{}, logger.Discard())

	_, err := svc.Create(context.Background(), nil, CreateCommentRequest{LeadID: &leadID, Text: "hello"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Empty(t, store.items)
}

func TestListNewestFirst(t *testing.T) {
	leadID := uuid.New()
	svc := NewService(&memStore{}, leadDirectory{leadID: {Name: "Ada"}}, nil, &recordingBus{}, logger.Discard())
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, nil, CreateCommentRequest{LeadID: &leadID, Text: text})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, ListCommentsRequest{LeadID: leadID.String()})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "third", resp.Items[0].Text)
	assert.Equal(t, "first", resp.Items[2].Text)
}

func TestUpdateAndDeleteUnknownComment(t *testing.T) {
	svc := NewService(&memStore{}, leadDirectory{}, nil, &recordingBus{}, logger.Discard())
	ctx := context.Background()

	_, err := svc.Update(ctx, uuid.New(), UpdateCommentRequest{Text: "edit"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Delete(ctx, uuid.New()), apperr.KindNotFound))
}
