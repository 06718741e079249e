package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BrokenHeaven/storage/internal/api/models"
	"github.com/BrokenHeaven/storage/internal/curves"
	"github.com/BrokenHeaven/storage/internal/data"
	"github.com/BrokenHeaven/storage/internal/lattice"
	"github.com/BrokenHeaven/storage/internal/period"
	"github.com/BrokenHeaven/storage/internal/storage"
	"github.com/BrokenHeaven/storage/internal/valuation"
)

// ValuationHandler serves the intrinsic and tree valuation endpoints.
type ValuationHandler struct{}

func NewValuationHandler() *ValuationHandler {
	return &ValuationHandler{}
}

// RunIntrinsic handles POST /api/v1/value/intrinsic.
func (h *ValuationHandler) RunIntrinsic(c *gin.Context) {
	var req models.IntrinsicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	f, curve, params, ok := h.prepare(c, &req)
	if !ok {
		return
	}

	result, err := valuation.Intrinsic(valuation.IntrinsicParams{
		Facility:          f,
		StartingInventory: req.StartingInventory,
		CurrentPeriod:     params.valDate,
		ForwardCurve:      curve,
		Settlement:        params.settle,
		Discount:          params.discount,
		Grid:              params.grid,
		Tolerance:         req.Tolerance,
	})
	if err != nil {
		writeValuationError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewValuationResponse(result.NPV, result.Profile))
}

// RunTree handles POST /api/v1/value/tree.
func (h *ValuationHandler) RunTree(c *gin.Context) {
	var req models.TreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	f, curve, params, ok := h.prepare(c, &req.IntrinsicRequest)
	if !ok {
		return
	}

	// The lattice spans exactly the remaining facility life.
	span := curve.Slice(params.valDate, f.EndPeriod())
	tree, err := lattice.Trinomial(lattice.TrinomialConfig{
		ForwardCurve:   span,
		SpotVolatility: curves.Constant(span.Start(), span.End(), req.SpotVolatility),
		MeanReversion:  req.MeanReversion,
		TimeDelta:      req.TimeDelta,
	})
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}

	result, err := valuation.Tree(valuation.TreeParams{
		Facility:          f,
		StartingInventory: req.StartingInventory,
		CurrentPeriod:     params.valDate,
		Lattice:           tree,
		Settlement:        params.settle,
		Discount:          params.discount,
		Grid:              params.grid,
		Tolerance:         req.Tolerance,
	})
	if err != nil {
		writeValuationError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewValuationResponse(result.NPV, result.Profile))
}

type requestParams struct {
	valDate  period.Period
	settle   valuation.SettlementRule
	discount valuation.DiscountFactor
	grid     valuation.GridStrategy
}

func (h *ValuationHandler) prepare(c *gin.Context, req *models.IntrinsicRequest) (*storage.Facility, curves.Series, requestParams, bool) {
	f, err := req.Facility.ToConfig().Build()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_FACILITY", err)
		return nil, curves.Series{}, requestParams{}, false
	}

	curve, err := data.ToSeries(req.Curve)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_CURVE", err)
		return nil, curves.Series{}, requestParams{}, false
	}

	valDate, err := period.Parse(req.ValuationDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return nil, curves.Series{}, requestParams{}, false
	}

	params := requestParams{
		valDate:  valDate,
		settle:   valuation.SettleWithLag(req.SettlementLagDays),
		discount: valuation.FlatInterestRate(req.InterestRate, valDate.Time()),
	}
	if req.GridSpacing > 0 {
		params.grid = valuation.FixedSpacingGrid{Spacing: req.GridSpacing}
	} else if req.NumGridPoints > 0 {
		params.grid = valuation.FixedPointCountGrid{NumPoints: req.NumGridPoints}
	}
	return f, curve, params, true
}

func writeValuationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, valuation.ErrArgumentInvalid):
		writeError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
	case errors.Is(err, valuation.ErrConstraintInfeasible):
		writeError(c, http.StatusUnprocessableEntity, "CONSTRAINT_INFEASIBLE", err)
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
	}
}

func writeError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}
