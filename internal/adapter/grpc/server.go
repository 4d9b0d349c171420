package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/simaogato/equity-outlook/internal/domain"
	"github.com/simaogato/equity-outlook/internal/usecase/passthrough"
	"github.com/simaogato/equity-outlook/internal/usecase/projection"
)

// MarketLookup resolves a market name to its configuration
type MarketLookup interface {
	Lookup(name string) (domain.MarketConfig, error)
}

// Server implements the ProjectionService gRPC server
type Server struct {
	ProjectionService  *projection.ProjectionService
	PassthroughService *passthrough.PassthroughService
	Markets            MarketLookup
	MarketList         []domain.MarketConfig
}

// NewServer creates a new gRPC server instance
func NewServer(
	projectionService *projection.ProjectionService,
	passthroughService *passthrough.PassthroughService,
	markets MarketLookup,
	marketList []domain.MarketConfig,
) *Server {
	return &Server{
		ProjectionService:  projectionService,
		PassthroughService: passthroughService,
		Markets:            markets,
		MarketList:         marketList,
	}
}

// ComputeProjection handles the ComputeProjection RPC
func (s *Server) ComputeProjection(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	name := strings.TrimSpace(req.GetValue())
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "market is required")
	}

	market, err := s.Markets.Lookup(name)
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.ProjectionService.ComputeProjection(ctx, market)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := structpb.NewStruct(ProjectionToMap(result))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode projection: %v", err)
	}
	return resp, nil
}

// ComputePassthroughSeries handles the ComputePassthroughSeries RPC
func (s *Server) ComputePassthroughSeries(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	result, err := s.PassthroughService.ComputePassthroughSeries(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := structpb.NewStruct(PassthroughToMap(result))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode unemployment series: %v", err)
	}
	return resp, nil
}

// ListMarkets handles the ListMarkets RPC
func (s *Server) ListMarkets(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	markets := make([]interface{}, 0, len(s.MarketList))
	for _, m := range s.MarketList {
		markets = append(markets, map[string]interface{}{
			"name":  m.Name,
			"title": m.Title,
		})
	}

	resp, err := structpb.NewStruct(map[string]interface{}{"markets": markets})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode markets: %v", err)
	}
	return resp, nil
}

// ProjectionToMap converts a projection into the chart payload
// Series dates are YYYY-MM-DD, label dates M/D/YYYY
func ProjectionToMap(r *domain.ProjectionResult) map[string]interface{} {
	chartData := make([]interface{}, 0, len(r.Series))
	for _, rec := range r.Series {
		var forwardReturn interface{}
		if rec.ForwardReturn != nil {
			forwardReturn = *rec.ForwardReturn
		}
		chartData = append(chartData, map[string]interface{}{
			"date":                  domain.FormatISODate(rec.Date),
			"allocation_percentage": rec.AllocationPercentage,
			"forward_return":        forwardReturn,
		})
	}

	return map[string]interface{}{
		"market":                 r.Market,
		"title":                  r.Title,
		"correlation_squared":    r.CorrelationSquared,
		"expected_return":        r.ExpectedReturn,
		"drift":                  r.Drift,
		"drift_adjusted_return":  r.DriftAdjustedReturn,
		"slope":                  r.Model.Slope,
		"intercept":              r.Model.Intercept,
		"sample_size":            r.Model.SampleSize,
		"fit_r_squared":          r.Model.RSquared,
		"last_updated_date":      domain.FormatDisplayDate(r.LastAllocationDate),
		"last_extrapolated_date": domain.FormatDisplayDate(r.LastIndexDate),
		"chart_data":             chartData,
	}
}

// PassthroughToMap converts the unemployment chart series into its payload
func PassthroughToMap(r *domain.PassthroughSeries) map[string]interface{} {
	unemployment := make([]interface{}, 0, len(r.Primary))
	for _, p := range r.Primary {
		var movingAverage interface{}
		if p.MovingAverage != nil {
			movingAverage = *p.MovingAverage
		}
		unemployment = append(unemployment, map[string]interface{}{
			"date":           domain.FormatISODate(p.Date),
			"rate":           p.Rate,
			"moving_average": movingAverage,
		})
	}

	recessions := make([]interface{}, 0, len(r.Secondary))
	for _, rec := range r.Secondary {
		recessions = append(recessions, map[string]interface{}{
			"start_date": domain.FormatISODate(rec.StartDate),
			"end_date":   domain.FormatISODate(rec.EndDate),
		})
	}

	return map[string]interface{}{
		"title":                   r.Title,
		"last_updated_date":       domain.FormatDisplayDate(r.LastUpdatedDate),
		"unemployment_chart_data": unemployment,
		"recession_chart_data":    recessions,
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()
	var fetchErr *domain.UpstreamFetchError

	switch {
	case errors.Is(err, domain.ErrUnknownMarket):
		return status.Errorf(codes.NotFound, "%s", errorMsg)

	// The data cannot support a projection right now
	case errors.Is(err, domain.ErrInsufficientData),
		errors.Is(err, domain.ErrNoReferenceData),
		errors.Is(err, domain.ErrMissingLatestObservation),
		errors.Is(err, domain.ErrInvalidIndexValue),
		errors.Is(err, domain.ErrInvalidCorrelation):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)

	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)

	case errors.As(err, &fetchErr):
		return status.Errorf(codes.Unavailable, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
