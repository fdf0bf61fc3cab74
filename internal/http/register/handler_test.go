package register_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/planora/internal/calendar"
	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/event"
	registerHandler "github.com/MrJamesThe3rd/planora/internal/http/register"
	"github.com/MrJamesThe3rd/planora/internal/register"
	"github.com/MrJamesThe3rd/planora/internal/totals"
)

type fixture struct {
	repo   *register.MockRepository
	snap   *register.MockSnapshot
	router chi.Router
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo: register.NewMockRepository(ctrl),
		snap: register.NewMockSnapshot(ctrl),
	}

	svc := register.NewService(f.repo, calendar.NewNormalizer(time.UTC), totals.NewCalculator("MXN", nil))
	h := registerHandler.NewHandler(svc)

	f.router = chi.NewRouter()
	f.router.Route("/documents", h.Routes)
	f.router.Route("/quotes", h.QuoteRoutes)

	return f
}

func (f *fixture) expectSnapshot() {
	f.repo.EXPECT().BeginSnapshot(gomock.Any()).Return(f.snap, nil)
	f.snap.EXPECT().Rollback().Return(nil)
}

func (f *fixture) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	return rec
}

var created = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

func TestHandler_Code(t *testing.T) {
	e := &event.Event{ID: uuid.New(), Date: "2025-06-14", CreatedAt: created}
	doc := &document.Document{ID: uuid.New(), Kind: document.KindQuote, EventID: &e.ID, Title: "Wedding", CreatedAt: created}

	f := newFixture(t)
	f.expectSnapshot()
	f.snap.EXPECT().GetDocument(gomock.Any(), document.KindQuote, doc.ID).Return(doc, nil)
	f.snap.EXPECT().ListDocuments(gomock.Any(), document.ForEvent(document.KindQuote, e.ID)).Return([]*document.Document{doc}, nil)
	f.snap.EXPECT().GetEvent(gomock.Any(), e.ID).Return(e, nil)
	f.snap.EXPECT().ListEvents(gomock.Any(), gomock.Any()).Return([]*event.Event{e}, nil)

	rec := f.do(http.MethodGet, "/documents/QT/"+doc.ID.String()+"/code")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "QT-250614-01-01", body["code"])
	assert.Equal(t, "quote", body["kind"])
	assert.Equal(t, e.ID.String(), body["reference_event_id"])
	assert.Equal(t, "valid", body["date_status"])
}

func TestHandler_CodeErrors(t *testing.T) {
	t.Run("UnknownKind", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/documents/receipts/"+uuid.NewString()+"/code")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/documents/invoices/nope/code")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		id := uuid.New()

		f := newFixture(t)
		f.expectSnapshot()
		f.snap.EXPECT().GetDocument(gomock.Any(), document.KindInvoice, id).Return(nil, register.ErrNotFound)

		rec := f.do(http.MethodGet, "/documents/invoices/"+id.String()+"/code")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("StoreFails", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().BeginSnapshot(gomock.Any()).Return(nil, errors.New("connection refused"))

		rec := f.do(http.MethodGet, "/documents/contracts/"+uuid.NewString()+"/code")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_ListByClient(t *testing.T) {
	clientID := uuid.New()
	first := &document.Document{ID: uuid.New(), Kind: document.KindContract, ClientID: &clientID, CreatedAt: created}
	second := &document.Document{ID: uuid.New(), Kind: document.KindContract, ClientID: &clientID, CreatedAt: created.Add(time.Hour)}

	f := newFixture(t)
	f.expectSnapshot()
	f.snap.EXPECT().
		ListDocuments(gomock.Any(), document.ForClient(document.KindContract, clientID)).
		Return([]*document.Document{second, first}, nil)

	rec := f.do(http.MethodGet, "/documents/contracts?client_id="+clientID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)

	assert.Equal(t, "CON-250614-01-01", body[0]["code"])
	assert.Equal(t, "CON-250614-01-02", body[1]["code"])
}

func TestHandler_ListRejectsBadQuery(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/documents/contracts?event_id=123")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Summary(t *testing.T) {
	eventID := uuid.New()
	doc := &document.Document{ID: uuid.New(), Kind: document.KindQuestionnaire, EventID: &eventID, CreatedAt: created}

	f := newFixture(t)
	f.expectSnapshot()
	f.snap.EXPECT().ListDocuments(gomock.Any(), document.ForEvent(document.KindQuestionnaire, eventID)).Return([]*document.Document{doc}, nil)
	f.snap.EXPECT().GetEvent(gomock.Any(), eventID).Return(nil, register.ErrNotFound)

	rec := f.do(http.MethodGet, "/documents/QST/summary?event_id="+eventID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "* QST-250614-01-01 | 2025-06-14 | Untitled\n", rec.Body.String())
}

func TestHandler_Totals(t *testing.T) {
	id := uuid.New()
	rate := decimal.NewFromInt(20)
	quote := &document.Quote{
		Document: document.Document{ID: id, Kind: document.KindQuote},
		Items: []document.LineItem{
			{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100)},
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
		Taxes:        []document.Tax{{Amount: decimal.NewFromInt(25)}},
		Currency:     "usd",
		ExchangeRate: &rate,
	}

	f := newFixture(t)
	f.expectSnapshot()
	f.snap.EXPECT().GetQuote(gomock.Any(), id).Return(quote, nil)

	rec := f.do(http.MethodGet, "/quotes/"+id.String()+"/totals")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "USD", body["currency"])
	assert.Equal(t, "250", body["subtotal"])
	assert.Equal(t, "25", body["tax_adjustment"])
	assert.Equal(t, "275", body["base_total"])
	assert.Equal(t, "13.75", body["converted_amount"])
	assert.Equal(t, "document", body["rate_origin"])
}

func TestHandler_TotalsWithoutConversion(t *testing.T) {
	id := uuid.New()
	quote := &document.Quote{Document: document.Document{ID: id, Kind: document.KindQuote}, Currency: "EUR"}

	f := newFixture(t)
	f.expectSnapshot()
	f.snap.EXPECT().GetQuote(gomock.Any(), id).Return(quote, nil)

	rec := f.do(http.MethodGet, "/quotes/"+id.String()+"/totals")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	converted, present := body["converted_amount"]
	assert.True(t, present)
	assert.Nil(t, converted)
	assert.Equal(t, "unavailable", body["rate_origin"])
}
