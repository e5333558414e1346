package grpc

// proto.go is the hand-written equivalent of the code buf would generate
// for savings.analytics.v1.AnalyticsService. Request and response messages
// are the application DTOs, carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/savings-analytics/internal/application/dto"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "savings.analytics.v1.AnalyticsService"

// AnalyticsServiceServer is the server API for AnalyticsService.
type AnalyticsServiceServer interface {
	ScoreMember(context.Context, *dto.RiskScoreRequest) (*dto.RiskAssessmentResponse, error)
	GetRiskFactors(context.Context, *dto.RiskScoreRequest) (*dto.RiskFactorsResponse, error)
	ScoreMembers(context.Context, *dto.RiskBatchRequest) (*dto.RiskBatchResponse, error)
	GetCreditLimit(context.Context, *dto.CreditLimitRequest) (*dto.CreditLimitResponse, error)
	AssessGroupHealth(context.Context, *dto.GroupHealthRequest) (*dto.GroupHealthResponse, error)
	AnalyzeParticipation(context.Context, *dto.GroupRequest) (*dto.ParticipationResponse, error)
	AnalyzeLoanPerformance(context.Context, *dto.GroupRequest) (*dto.LoanPerformanceResponse, error)
	AnalyzeGrowth(context.Context, *dto.GroupRequest) (*dto.GrowthResponse, error)
	BenchmarkGroup(context.Context, *dto.GroupRequest) (*dto.BenchmarkResponse, error)
	RankMembers(context.Context, *dto.RankingRequest) (*dto.RankingResponse, error)
	ProjectFund(context.Context, *dto.ProjectionRequest) (*dto.ProjectionResponse, error)
	AnalyzeScenarios(context.Context, *dto.ProjectionRequest) (*dto.ScenarioResponse, error)
	SimulateCycle(context.Context, *dto.CycleSimulationRequest) (*dto.CycleSimulationResponse, error)
	PlanSavingsGoal(context.Context, *dto.SavingsGoalRequest) (*dto.SavingsGoalResponse, error)
	GetLoanCapacity(context.Context, *dto.ProjectionRequest) (*dto.LoanCapacityResponse, error)
	ProjectInterest(context.Context, *dto.ProjectionRequest) (*dto.InterestProjectionResponse, error)
	GetDashboard(context.Context, *dto.DashboardRequest) (*dto.DashboardResponse, error)
	GetTrends(context.Context, *dto.TrendsRequest) (*dto.TrendsResponse, error)
	GetAlerts(context.Context, *dto.GroupRequest) (*dto.AlertsResponse, error)
	CompareGroups(context.Context, *dto.CompareRequest) (*dto.CompareResponse, error)
	GetStatus(context.Context, *dto.StatusRequest) (*dto.StatusResponse, error)
	mustEmbedUnimplementedAnalyticsServiceServer()
}

// UnimplementedAnalyticsServiceServer provides forward-compatible default implementations.
type UnimplementedAnalyticsServiceServer struct{}

func (UnimplementedAnalyticsServiceServer) ScoreMember(context.Context, *dto.RiskScoreRequest) (*dto.RiskAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreMember not implemented")
}
func (UnimplementedAnalyticsServiceServer) GetRiskFactors(context.Context, *dto.RiskScoreRequest) (*dto.RiskFactorsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetRiskFactors not implemented")
}
func (UnimplementedAnalyticsServiceServer) ScoreMembers(context.Context, *dto.RiskBatchRequest) (*dto.RiskBatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreMembers not implemented")
}
func (UnimplementedAnalyticsServiceServer) GetCreditLimit(context.Context, *dto.CreditLimitRequest) (*dto.CreditLimitResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCreditLimit not implemented")
}
func (UnimplementedAnalyticsServiceServer) AssessGroupHealth(context.Context, *dto.GroupHealthRequest) (*dto.GroupHealthResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessGroupHealth not implemented")
}
func (UnimplementedAnalyticsServiceServer) AnalyzeParticipation(context.Context, *dto.GroupRequest) (*dto.ParticipationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeParticipation not implemented")
}
func (UnimplementedAnalyticsServiceServer) AnalyzeLoanPerformance(context.Context, *dto.GroupRequest) (*dto.LoanPerformanceResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeLoanPerformance not implemented")
}
func (UnimplementedAnalyticsServiceServer) AnalyzeGrowth(context.Context, *dto.GroupRequest) (*dto.GrowthResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeGrowth not implemented")
}
func (UnimplementedAnalyticsServiceServer) BenchmarkGroup(context.Context, *dto.GroupRequest) (*dto.BenchmarkResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method BenchmarkGroup not implemented")
}
func (UnimplementedAnalyticsServiceServer) RankMembers(context.Context, *dto.RankingRequest) (*dto.RankingResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RankMembers not implemented")
}
func (UnimplementedAnalyticsServiceServer) ProjectFund(context.Context, *dto.ProjectionRequest) (*dto.ProjectionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ProjectFund not implemented")
}
func (UnimplementedAnalyticsServiceServer) AnalyzeScenarios(context.Context, *dto.ProjectionRequest) (*dto.ScenarioResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeScenarios not implemented")
}
func (UnimplementedAnalyticsServiceServer) SimulateCycle(context.Context, *dto.CycleSimulationRequest) (*dto.CycleSimulationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SimulateCycle not implemented")
}
func (UnimplementedAnalyticsServiceServer) PlanSavingsGoal(context.Context, *dto.SavingsGoalRequest) (*dto.SavingsGoalResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PlanSavingsGoal not implemented")
}
func (UnimplementedAnalyticsServiceServer) GetLoanCapacity(context.Context, *dto.ProjectionRequest) (*dto.LoanCapacityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoanCapacity not implemented")
}
func (UnimplementedAnalyticsServiceServer) ProjectInterest(context.Context, *dto.ProjectionRequest) (*dto.InterestProjectionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ProjectInterest not implemented")
}
func (UnimplementedAnalyticsServiceServer) GetDashboard(context.Context, *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetDashboard not implemented")
}
func (UnimplementedAnalyticsServiceServer) GetTrends(context.Context, *dto.TrendsRequest) (*dto.TrendsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetTrends not implemented")
}
func (UnimplementedAnalyticsServiceServer) GetAlerts(context.Context, *dto.GroupRequest) (*dto.AlertsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAlerts not implemented")
}
func (UnimplementedAnalyticsServiceServer) CompareGroups(context.Context, *dto.CompareRequest) (*dto.CompareResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CompareGroups not implemented")
}
func (UnimplementedAnalyticsServiceServer) GetStatus(context.Context, *dto.StatusRequest) (*dto.StatusResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStatus not implemented")
}
func (UnimplementedAnalyticsServiceServer) mustEmbedUnimplementedAnalyticsServiceServer() {}

// RegisterAnalyticsServiceServer registers srv with the gRPC server.
func RegisterAnalyticsServiceServer(s grpclib.ServiceRegistrar, srv AnalyticsServiceServer) {
	s.RegisterService(&analyticsServiceDesc, srv)
}

var analyticsServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyticsServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unary("ScoreMember", AnalyticsServiceServer.ScoreMember),
		unary("GetRiskFactors", AnalyticsServiceServer.GetRiskFactors),
		unary("ScoreMembers", AnalyticsServiceServer.ScoreMembers),
		unary("GetCreditLimit", AnalyticsServiceServer.GetCreditLimit),
		unary("AssessGroupHealth", AnalyticsServiceServer.AssessGroupHealth),
		unary("AnalyzeParticipation", AnalyticsServiceServer.AnalyzeParticipation),
		unary("AnalyzeLoanPerformance", AnalyticsServiceServer.AnalyzeLoanPerformance),
		unary("AnalyzeGrowth", AnalyticsServiceServer.AnalyzeGrowth),
		unary("BenchmarkGroup", AnalyticsServiceServer.BenchmarkGroup),
		unary("RankMembers", AnalyticsServiceServer.RankMembers),
		unary("ProjectFund", AnalyticsServiceServer.ProjectFund),
		unary("AnalyzeScenarios", AnalyticsServiceServer.AnalyzeScenarios),
		unary("SimulateCycle", AnalyticsServiceServer.SimulateCycle),
		unary("PlanSavingsGoal", AnalyticsServiceServer.PlanSavingsGoal),
		unary("GetLoanCapacity", AnalyticsServiceServer.GetLoanCapacity),
		unary("ProjectInterest", AnalyticsServiceServer.ProjectInterest),
		unary("GetDashboard", AnalyticsServiceServer.GetDashboard),
		unary("GetTrends", AnalyticsServiceServer.GetTrends),
		unary("GetAlerts", AnalyticsServiceServer.GetAlerts),
		unary("CompareGroups", AnalyticsServiceServer.CompareGroups),
		unary("GetStatus", AnalyticsServiceServer.GetStatus),
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "savings/analytics/v1/analytics.proto",
}

// FullMethod returns the full gRPC method name of an AnalyticsService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary builds the method descriptor that decodes a request, runs the
// interceptor chain and dispatches to call.
func unary[Req, Resp any](name string, call func(AnalyticsServiceServer, context.Context, *Req) (*Resp, error)) grpclib.MethodDesc {
	return grpclib.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AnalyticsServiceServer), ctx, in)
			}
			info := &grpclib.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AnalyticsServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
