package register_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/planora/internal/calendar"
	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/event"
	"github.com/MrJamesThe3rd/planora/internal/register"
	"github.com/MrJamesThe3rd/planora/internal/totals"
)

var day = time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return day.Add(time.Duration(minutes) * time.Minute)
}

type fixture struct {
	ctrl *gomock.Controller
	repo *register.MockRepository
	snap *register.MockSnapshot
	svc  *register.Service
}

func newFixture(t *testing.T, rates totals.RateSource) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		ctrl: ctrl,
		repo: register.NewMockRepository(ctrl),
		snap: register.NewMockSnapshot(ctrl),
	}

	f.svc = register.NewService(f.repo, calendar.NewNormalizer(time.UTC), totals.NewCalculator("MXN", rates))

	return f
}

// expectSnapshot expects exactly one snapshot to be opened and released.
func (f *fixture) expectSnapshot() {
	f.repo.EXPECT().BeginSnapshot(gomock.Any()).Return(f.snap, nil)
	f.snap.EXPECT().Rollback().Return(nil)
}

func TestService_Resolve(t *testing.T) {
	earlier := &event.Event{ID: uuid.New(), Date: "2025-06-14", CreatedAt: at(0)}
	wedding := &event.Event{ID: uuid.New(), Date: "2025-06-14", CreatedAt: at(10)}
	q1 := &document.Document{ID: uuid.New(), Kind: document.KindQuote, EventID: &wedding.ID, CreatedAt: at(20)}
	q2 := &document.Document{ID: uuid.New(), Kind: document.KindQuote, EventID: &wedding.ID, CreatedAt: at(30)}

	f := newFixture(t, nil)
	f.expectSnapshot()

	f.snap.EXPECT().GetDocument(gomock.Any(), document.KindQuote, q2.ID).Return(q2, nil)
	f.snap.EXPECT().ListDocuments(gomock.Any(), document.ForEvent(document.KindQuote, wedding.ID)).Return([]*document.Document{q2, q1}, nil)
	f.snap.EXPECT().GetEvent(gomock.Any(), wedding.ID).Return(wedding, nil)
	f.snap.EXPECT().
		ListEvents(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter event.ListFilter) ([]*event.Event, error) {
			require.NotNil(t, filter.StartDate)
			require.NotNil(t, filter.EndDate)
			assert.Equal(t, "2025-06-13", filter.StartDate.Format(time.DateOnly))
			assert.Equal(t, "2025-06-15", filter.EndDate.Format(time.DateOnly))

			return []*event.Event{earlier, wedding}, nil
		})

	got, err := f.svc.Resolve(context.Background(), document.KindQuote, q2.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "QT-250614-02-02", got.Code)
	assert.Equal(t, 2, got.EventSequence)
	assert.Equal(t, 2, got.DocumentSequence)
	assert.Same(t, q2, got.Document)
	assert.Same(t, wedding, got.ReferenceEvent)
}

func TestService_ResolveWithFallbackEvent(t *testing.T) {
	clientID := uuid.New()
	first := &event.Event{ID: uuid.New(), Date: "2025-06-14", CreatedAt: at(0)}
	current := &event.Event{ID: uuid.New(), Date: "2025-06-14", CreatedAt: at(5)}
	contract := &document.Document{ID: uuid.New(), Kind: document.KindContract, ClientID: &clientID, CreatedAt: at(40)}

	f := newFixture(t, nil)
	f.expectSnapshot()

	f.snap.EXPECT().GetDocument(gomock.Any(), document.KindContract, contract.ID).Return(contract, nil)
	f.snap.EXPECT().ListDocuments(gomock.Any(), document.ForClient(document.KindContract, clientID)).Return([]*document.Document{contract}, nil)
	f.snap.EXPECT().GetEvent(gomock.Any(), current.ID).Return(current, nil)
	f.snap.EXPECT().ListEvents(gomock.Any(), gomock.Any()).Return([]*event.Event{first, current}, nil)

	got, err := f.svc.Resolve(context.Background(), document.KindContract, contract.ID, &current.ID)
	require.NoError(t, err)

	assert.Equal(t, "CON-250614-02-01", got.Code)
}

func TestService_ResolveDegradesOnMissingEvents(t *testing.T) {
	clientID := uuid.New()
	goneEvent := uuid.New()
	goneFallback := uuid.New()
	inv := &document.Document{ID: uuid.New(), Kind: document.KindInvoice, EventID: &goneEvent, ClientID: &clientID, CreatedAt: at(0)}

	f := newFixture(t, nil)
	f.expectSnapshot()

	f.snap.EXPECT().GetDocument(gomock.Any(), document.KindInvoice, inv.ID).Return(inv, nil)
	f.snap.EXPECT().ListDocuments(gomock.Any(), gomock.Any()).Return([]*document.Document{inv}, nil)
	f.snap.EXPECT().GetEvent(gomock.Any(), goneEvent).Return(nil, register.ErrNotFound)
	f.snap.EXPECT().GetEvent(gomock.Any(), goneFallback).Return(nil, register.ErrNotFound)

	got, err := f.svc.Resolve(context.Background(), document.KindInvoice, inv.ID, &goneFallback)
	require.NoError(t, err)

	assert.Equal(t, "INV-250614-01-01", got.Code, "creation date and default sequences")
}

func TestService_ResolveErrors(t *testing.T) {
	id := uuid.New()

	t.Run("SnapshotFails", func(t *testing.T) {
		f := newFixture(t, nil)
		f.repo.EXPECT().BeginSnapshot(gomock.Any()).Return(nil, errors.New("db down"))

		_, err := f.svc.Resolve(context.Background(), document.KindQuote, id, nil)
		assert.Error(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t, nil)
		f.expectSnapshot()
		f.snap.EXPECT().GetDocument(gomock.Any(), document.KindQuote, id).Return(nil, register.ErrNotFound)

		_, err := f.svc.Resolve(context.Background(), document.KindQuote, id, nil)
		assert.ErrorIs(t, err, register.ErrNotFound)
	})

	t.Run("EventLookupFails", func(t *testing.T) {
		eventID := uuid.New()
		doc := &document.Document{ID: id, Kind: document.KindQuote, EventID: &eventID}

		f := newFixture(t, nil)
		f.expectSnapshot()
		f.snap.EXPECT().GetDocument(gomock.Any(), document.KindQuote, id).Return(doc, nil)
		f.snap.EXPECT().ListDocuments(gomock.Any(), gomock.Any()).Return([]*document.Document{doc}, nil)
		f.snap.EXPECT().GetEvent(gomock.Any(), eventID).Return(nil, errors.New("timeout"))

		_, err := f.svc.Resolve(context.Background(), document.KindQuote, id, nil)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, register.ErrNotFound)
	})
}

func TestService_ListRenumbersAfterDeletion(t *testing.T) {
	e := &event.Event{ID: uuid.New(), Date: "2025-06-14", CreatedAt: at(0)}
	inv1 := &document.Document{ID: uuid.New(), Kind: document.KindInvoice, EventID: &e.ID, CreatedAt: at(1), Title: "Deposit"}
	inv2 := &document.Document{ID: uuid.New(), Kind: document.KindInvoice, EventID: &e.ID, CreatedAt: at(2), Title: "Balance"}
	inv3 := &document.Document{ID: uuid.New(), Kind: document.KindInvoice, EventID: &e.ID, CreatedAt: at(3)}
	key := document.ForEvent(document.KindInvoice, e.ID)

	list := func(siblings ...*document.Document) []string {
		f := newFixture(t, nil)
		f.expectSnapshot()
		f.snap.EXPECT().ListDocuments(gomock.Any(), key).Return(siblings, nil)
		f.snap.EXPECT().GetEvent(gomock.Any(), e.ID).Return(e, nil)
		f.snap.EXPECT().ListEvents(gomock.Any(), gomock.Any()).Return([]*event.Event{e}, nil)

		entries, err := f.svc.List(context.Background(), key, nil)
		require.NoError(t, err)

		codes := make([]string, len(entries))
		for i, en := range entries {
			codes[i] = en.Code
		}

		return codes
	}

	assert.Equal(t, []string{"INV-250614-01-01", "INV-250614-01-02", "INV-250614-01-03"}, list(inv3, inv1, inv2))
	assert.Equal(t, []string{"INV-250614-01-01", "INV-250614-01-02"}, list(inv2, inv3))
}

func TestService_Summary(t *testing.T) {
	svc := register.NewService(nil, calendar.NewNormalizer(time.UTC), totals.NewCalculator("", nil))

	got := svc.Summary([]*register.Entry{
		{Code: "INV-250614-01-01", Document: &document.Document{Title: "Deposit", CreatedAt: at(0)}},
		{Code: "INV-250614-01-02", Document: &document.Document{}},
	})

	assert.Equal(t, "* INV-250614-01-01 | 2025-06-14 | Deposit\n* INV-250614-01-02 | unknown | Untitled\n", got)
}

type fixedRate decimal.Decimal

func (r fixedRate) Rate(context.Context, string) (decimal.Decimal, error) {
	return decimal.Decimal(r), nil
}

func TestService_QuoteTotals(t *testing.T) {
	id := uuid.New()
	quote := &document.Quote{
		Document: document.Document{ID: id, Kind: document.KindQuote},
		Items: []document.LineItem{
			{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100)},
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
		Taxes:    []document.Tax{{Amount: decimal.NewFromInt(25)}},
		Currency: "USD",
	}

	f := newFixture(t, fixedRate(decimal.NewFromInt(25)))
	f.expectSnapshot()
	f.snap.EXPECT().GetQuote(gomock.Any(), id).Return(quote, nil)

	got, err := f.svc.QuoteTotals(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, got.Totals.BaseTotal.Equal(decimal.NewFromInt(275)))
	require.NotNil(t, got.Totals.ConvertedAmount)
	assert.True(t, got.Totals.ConvertedAmount.Equal(decimal.NewFromInt(11)))
}

func TestService_QuoteTotalsNotFound(t *testing.T) {
	id := uuid.New()

	f := newFixture(t, nil)
	f.expectSnapshot()
	f.snap.EXPECT().GetQuote(gomock.Any(), id).Return(nil, register.ErrNotFound)

	_, err := f.svc.QuoteTotals(context.Background(), id)
	assert.ErrorIs(t, err, register.ErrNotFound)
}
