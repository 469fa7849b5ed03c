package drafts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-erp/procure-gateway/internal/catalog"
	"github.com/meridian-erp/procure-gateway/internal/document"
	"github.com/meridian-erp/procure-gateway/internal/platform/httpx"
	"github.com/meridian-erp/procure-gateway/internal/upstream"
)

// ErrSubmitInFlight rejects a second submit while one is still running.
var ErrSubmitInFlight = fmt.Errorf("drafts: submission already in progress: %w", httpx.ErrConflict)

// submitStateWindow bounds the in-flight marker. A submit that never resolved,
// because the process died between saves, stops blocking after this long.
const submitStateWindow = 2 * time.Minute

// CatalogPort resolves products for line entry.
type CatalogPort interface {
	ResolveByID(ctx context.Context, id string) (catalog.Product, bool, error)
	ResolveByName(ctx context.Context, name string) (catalog.Product, bool, error)
	Search(ctx context.Context, query string, limit int) ([]catalog.Product, error)
}

// AllocatorPort supplies document numbers.
type AllocatorPort interface {
	Next(ctx context.Context, t document.Type) (string, bool)
	ConfirmUsed(ctx context.Context, t document.Type, used string) string
}

// UpstreamPort covers the backend calls the draft flow needs.
type UpstreamPort interface {
	CreateDocument(ctx context.Context, t document.Type, payload map[string]any) (upstream.CreatedDocument, error)
	ListSuppliers(ctx context.Context) ([]upstream.NamedRef, error)
	ListCenters(ctx context.Context) ([]upstream.NamedRef, error)
}

// Service orchestrates draft sessions over the document reducer.
type Service struct {
	repo      Repository
	catalog   CatalogPort
	allocator AllocatorPort
	upstream  UpstreamPort
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs the drafts service.
func NewService(repo Repository, cat CatalogPort, allocator AllocatorPort, up UpstreamPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, catalog: cat, allocator: allocator, upstream: up, logger: logger, now: time.Now}
}

// View is a draft plus its derived totals and any soft numbering notice.
type View struct {
	Draft            document.Draft  `json:"draft"`
	Totals           document.Totals `json:"totals"`
	NumberingWarning string          `json:"numberingWarning,omitempty"`
}

// Confirmation is returned after a successful submission, with enough data to
// render the confirmation and export views.
type Confirmation struct {
	ID             int64               `json:"id"`
	DocumentNumber string              `json:"documentNumber"`
	Lines          []document.LineItem `json:"lines"`
	Totals         document.Totals     `json:"totals"`
	NextNumber     string              `json:"nextNumber"`
}

// HeaderUpdate carries one partial header edit.
type HeaderUpdate struct {
	Date       *string
	CenterID   *string
	SupplierID *string
	RefNumber  *string
	Status     *document.Status
}

// Create opens a fresh draft with an allocated document number. Allocator
// failure is not fatal; the view carries a warning and a local number.
func (s *Service) Create(ctx context.Context, t document.Type, batchTracking bool, date string) (View, error) {
	number, fallback := s.allocator.Next(ctx, t)
	if date == "" {
		date = s.now().Format("2006-01-02")
	}
	draft := document.Draft{
		ID:            uuid.NewString(),
		Type:          t,
		BatchTracking: batchTracking,
		Submission:    document.SubmissionIdle,
		Header: document.Header{
			DocumentNumber: number,
			Date:           date,
			Status:         document.StatusDraft,
		},
	}
	if err := s.repo.Save(ctx, draft); err != nil {
		return View{}, err
	}
	return s.view(draft, fallback), nil
}

// Get loads one draft with derived totals.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	draft, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(draft, false), nil
}

// AddLine resolves the candidate against the catalog and runs the reducer.
func (s *Service) AddLine(ctx context.Context, draftID string, input document.AddLineInput) (View, error) {
	draft, err := s.repo.Get(ctx, draftID)
	if err != nil {
		return View{}, err
	}
	entry, err := s.resolve(ctx, input)
	if err != nil {
		return View{}, err
	}
	if _, err := draft.AddLine(input, entry); err != nil {
		return View{}, err
	}
	if err := s.repo.Save(ctx, draft); err != nil {
		return View{}, err
	}
	return s.view(draft, false), nil
}

// UpdateLine applies a partial edit to one line.
func (s *Service) UpdateLine(ctx context.Context, draftID, lineID string, update document.LineUpdate) (View, error) {
	draft, err := s.repo.Get(ctx, draftID)
	if err != nil {
		return View{}, err
	}
	if _, err := draft.UpdateLine(lineID, update); err != nil {
		return View{}, err
	}
	if err := s.repo.Save(ctx, draft); err != nil {
		return View{}, err
	}
	return s.view(draft, false), nil
}

// RemoveLine deletes one line.
func (s *Service) RemoveLine(ctx context.Context, draftID, lineID string) (View, error) {
	draft, err := s.repo.Get(ctx, draftID)
	if err != nil {
		return View{}, err
	}
	if err := draft.RemoveLine(lineID); err != nil {
		return View{}, err
	}
	if err := s.repo.Save(ctx, draft); err != nil {
		return View{}, err
	}
	return s.view(draft, false), nil
}

// UpdateHeader applies partial header edits.
func (s *Service) UpdateHeader(ctx context.Context, draftID string, update HeaderUpdate) (View, error) {
	draft, err := s.repo.Get(ctx, draftID)
	if err != nil {
		return View{}, err
	}
	if update.Date != nil {
		draft.Header.Date = *update.Date
	}
	if update.CenterID != nil {
		draft.Header.CenterID = *update.CenterID
	}
	if update.SupplierID != nil {
		draft.Header.SupplierID = *update.SupplierID
	}
	if update.RefNumber != nil {
		draft.Header.RefNumber = *update.RefNumber
	}
	if update.Status != nil {
		draft.Header.Status = *update.Status
	}
	if err := s.repo.Save(ctx, draft); err != nil {
		return View{}, err
	}
	return s.view(draft, false), nil
}

// Reset clears the form back to an empty draft of the same type.
func (s *Service) Reset(ctx context.Context, draftID string) (View, error) {
	draft, err := s.repo.Get(ctx, draftID)
	if err != nil {
		return View{}, err
	}
	draft.Reset()
	if err := s.repo.Save(ctx, draft); err != nil {
		return View{}, err
	}
	return s.view(draft, false), nil
}

// Submit validates the draft, posts it upstream and, on success, refreshes
// the document number and resets the form. Failures keep the draft intact.
// The allocator refresh runs strictly after the create response is known.
func (s *Service) Submit(ctx context.Context, draftID string) (Confirmation, error) {
	draft, err := s.repo.Get(ctx, draftID)
	if err != nil {
		return Confirmation{}, err
	}
	if draft.Submission == document.SubmissionInFlight && s.now().Before(draft.SubmissionExpires) {
		return Confirmation{}, ErrSubmitInFlight
	}
	if err := draft.Validate(); err != nil {
		return Confirmation{}, err
	}

	draft.Submission = document.SubmissionInFlight
	draft.SubmissionExpires = s.now().Add(submitStateWindow)
	draft.FailureReason = ""
	if err := s.repo.Save(ctx, draft); err != nil {
		return Confirmation{}, err
	}

	payload := upstream.BuildCreatePayload(draft.Type, draft.Header, draft.Lines)
	created, err := s.upstream.CreateDocument(ctx, draft.Type, payload)
	if err != nil {
		draft.Submission = document.SubmissionFailed
		draft.SubmissionExpires = time.Time{}
		draft.FailureReason = err.Error()
		if saveErr := s.repo.Save(ctx, draft); saveErr != nil {
			s.logger.Error("persist failed submission state", slog.Any("error", saveErr))
		}
		return Confirmation{}, err
	}

	usedNumber := draft.Header.DocumentNumber
	if created.Number != "" {
		usedNumber = created.Number
	}
	nextNumber := s.allocator.ConfirmUsed(ctx, draft.Type, usedNumber)

	confirmation := Confirmation{
		ID:             created.ID,
		DocumentNumber: usedNumber,
		Lines:          append([]document.LineItem(nil), draft.Lines...),
		Totals:         draft.Totals(),
		NextNumber:     nextNumber,
	}

	draft.Reset()
	draft.Header.DocumentNumber = nextNumber
	if err := s.repo.Save(ctx, draft); err != nil {
		s.logger.Error("persist reset draft", slog.Any("error", err))
	}
	return confirmation, nil
}

// Suppliers proxies the supplier master.
func (s *Service) Suppliers(ctx context.Context) ([]upstream.NamedRef, error) {
	return s.upstream.ListSuppliers(ctx)
}

// Centers proxies the center master.
func (s *Service) Centers(ctx context.Context) ([]upstream.NamedRef, error) {
	return s.upstream.ListCenters(ctx)
}

// Products lists catalog entries for the product picker.
func (s *Service) Products(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
	return s.catalog.Search(ctx, query, limit)
}

func (s *Service) resolve(ctx context.Context, input document.AddLineInput) (*document.CatalogEntry, error) {
	product, found, err := s.catalog.ResolveByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !found {
		product, found, err = s.catalog.ResolveByName(ctx, input.Name)
		if err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, nil
	}
	return &document.CatalogEntry{
		ID:              product.ID,
		Name:            product.Name,
		UnitPrice:       product.UnitPrice,
		CostPrice:       product.CostPrice,
		MRP:             product.MRP,
		CurrentStock:    product.CurrentStock,
		DefaultDiscount: product.DefaultDiscount,
	}, nil
}

func (s *Service) view(draft document.Draft, numberingFallback bool) View {
	view := View{Draft: draft, Totals: draft.Totals()}
	if numberingFallback {
		view.NumberingWarning = "document number derived locally, backend numbering unavailable"
	}
	return view
}
