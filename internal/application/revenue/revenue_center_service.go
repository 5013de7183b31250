package revenue

import (
	"context"
	"strconv"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RevenueCenterService handles revenue center CRUD and keeps the persisted
// spend snapshot in sync with input consumption and expenditures.
type RevenueCenterService struct {
	centers      revenue.RevenueCenterRepository
	reports      revenue.ReportRepository
	expenditures revenue.ExpenditureRepository
	locker       revenue.SnapshotLocker
}

// NewRevenueCenterService creates a new RevenueCenterService
func NewRevenueCenterService(
	centers revenue.RevenueCenterRepository,
	reports revenue.ReportRepository,
	expenditures revenue.ExpenditureRepository,
	locker revenue.SnapshotLocker,
) *RevenueCenterService {
	return &RevenueCenterService{
		centers:      centers,
		reports:      reports,
		expenditures: expenditures,
		locker:       locker,
	}
}

// Create persists a new revenue center and computes its spend.
// invoice and utility start at "0.0".
func (s *RevenueCenterService) Create(ctx context.Context, req CreateRevenueCenterRequest) (*RevenueCenterResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "revenue_center", "create")
	defer span.End()

	rc, err := revenue.NewRevenueCenter(revenue.NewRevenueCenterInput{
		Name:                req.Name,
		CostCenterProjectID: req.CostCenterProjectID,
		StatusID:            req.StatusID,
		QuotationID:         req.QuotationID,
		FromDate:            req.FromDate,
		ToDate:              req.ToDate,
	})
	if err != nil {
		return nil, boundaryError(ctx, "revenue_center.create", err)
	}

	err = s.withProjectSpend(ctx, rc.CostCenterProjectID, func(spend decimal.Decimal) error {
		rc.SetSpend(spend)
		return s.centers.Create(ctx, rc)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, boundaryError(ctx, "revenue_center.create", err)
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrRevenueCenterID, rc.ID)

	logger.L(ctx).Info("revenue center created",
		zap.Uint("revenue_center_id", rc.ID),
		zap.Uint("cost_center_project_id", rc.CostCenterProjectID),
		zap.String("spend", rc.Spend),
	)
	resp := ToRevenueCenterResponse(rc)
	return &resp, nil
}

// Update merges req over the stored revenue center and recomputes spend,
// the same way Create does.
func (s *RevenueCenterService) Update(ctx context.Context, id uint, req UpdateRevenueCenterRequest) (*RevenueCenterResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "revenue_center", "update",
		telemetry.WithAttribute(telemetry.SpanAttrRevenueCenterID, id))
	defer span.End()

	rc, err := s.centers.FindByID(ctx, id)
	if err != nil {
		return nil, boundaryError(ctx, "revenue_center.update", err)
	}
	if err := rc.Apply(req.toPatch()); err != nil {
		return nil, boundaryError(ctx, "revenue_center.update", err)
	}
	err = s.withProjectSpend(ctx, rc.CostCenterProjectID, func(spend decimal.Decimal) error {
		rc.SetSpend(spend)
		return s.centers.Update(ctx, rc)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, boundaryError(ctx, "revenue_center.update", err)
	}

	resp := ToRevenueCenterResponse(rc)
	return &resp, nil
}

// Recalculate recomputes the spend snapshot of an existing revenue center.
func (s *RevenueCenterService) Recalculate(ctx context.Context, id uint) (*RevenueCenterResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "revenue_center", "recalculate",
		telemetry.WithAttribute(telemetry.SpanAttrRevenueCenterID, id))
	defer span.End()

	rc, err := s.centers.FindByID(ctx, id)
	if err != nil {
		return nil, boundaryError(ctx, "revenue_center.recalculate", err)
	}
	err = s.withProjectSpend(ctx, rc.CostCenterProjectID, func(spend decimal.Decimal) error {
		version, err := s.centers.UpdateSnapshot(ctx, rc.ID, rc.Version, spend.String())
		if err != nil {
			return err
		}
		rc.SetSpend(spend)
		rc.Version = version
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, boundaryError(ctx, "revenue_center.recalculate", err)
	}

	resp := ToRevenueCenterResponse(rc)
	return &resp, nil
}

// FindByID returns a revenue center with its persisted snapshot
func (s *RevenueCenterService) FindByID(ctx context.Context, id uint) (*RevenueCenterResponse, error) {
	rc, err := s.centers.FindByID(ctx, id)
	if err != nil {
		return nil, boundaryError(ctx, "revenue_center.find_by_id", err)
	}
	resp := ToRevenueCenterResponse(rc)
	return &resp, nil
}

// FindAll lists revenue centers
func (s *RevenueCenterService) FindAll(ctx context.Context, query ListRevenueCenterQuery) (*Paginated[RevenueCenterResponse], error) {
	page := query.ToPage()
	centers, total, err := s.centers.FindAll(ctx, revenue.RevenueCenterFilter{
		StatusID:            query.StatusID,
		CostCenterProjectID: query.CostCenterProjectID,
		OrderBy:             query.OrderBy,
		OrderDir:            query.OrderDir,
	}, page)
	if err != nil {
		return nil, boundaryError(ctx, "revenue_center.find_all", err)
	}

	data := make([]RevenueCenterResponse, 0, len(centers))
	for i := range centers {
		data = append(data, ToRevenueCenterResponse(&centers[i]))
	}
	return newPaginated(data, total, page), nil
}

// withProjectSpend sums input consumption and expenditures of the cost center
// project and hands the result to write while the project lock is held. The
// lock serializes concurrent recalculations and the versioned write rejects a
// stale read. Nothing is written unless every read succeeds.
func (s *RevenueCenterService) withProjectSpend(ctx context.Context, projectID uint, write func(spend decimal.Decimal) error) error {
	release, err := s.locker.Acquire(ctx, strconv.FormatUint(uint64(projectID), 10))
	if err != nil {
		return err
	}
	defer release()
	telemetry.AddEvent(telemetry.SpanFromContext(ctx), "snapshot_lock_acquired",
		telemetry.SpanAttrCostCenterProjectID, projectID)

	var (
		inputs       []revenue.InputValue
		expenditures []revenue.ExpenditureValue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inputs, err = s.reports.FindInputValues(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		expenditures, err = s.expenditures.FindAllValues(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	spend, ok := revenue.SpendByProject(inputs, expenditures)[projectID]
	if !ok {
		spend = decimal.Zero
	}
	return write(spend)
}
