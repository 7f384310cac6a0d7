package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
)

// The planner RPC carries JSON-shaped google.protobuf.Struct messages:
//
//	service Planner { rpc Compute(google.protobuf.Struct) returns (google.protobuf.Struct); }
//
// Request: {"project_id": "...", "request": ScenarioRequest}. Response: PlanComputedEvent.
const (
	PlannerServiceName = "dripplan.Planner"
	computeMethod      = "/" + PlannerServiceName + "/Compute"
)

type PlannerServer interface {
	Compute(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type computeCall struct {
	ProjectID string                   `json:"project_id,omitempty"`
	Request   messages.ScenarioRequest `json:"request"`
}

var plannerServiceDesc = grpc.ServiceDesc{
	ServiceName: PlannerServiceName,
	HandlerType: (*PlannerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Compute", Handler: computeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dripplan/planner.proto",
}

func computeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PlannerServer).Compute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: computeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PlannerServer).Compute(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func RegisterPlannerServer(s grpc.ServiceRegistrar, srv PlannerServer) {
	s.RegisterService(&plannerServiceDesc, srv)
}

// RecoverUnary turns a handler panic into codes.Internal so one bad call
// cannot take the process down.
func RecoverUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("planner: panic in %s: %v\n%s", info.FullMethod, r, debug.Stack())
			resp, err = nil, status.Errorf(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}

// GrpcHandler adapts the Service to PlannerServer.
type GrpcHandler struct {
	svc *Service
}

func NewGrpcHandler(svc *Service) *GrpcHandler {
	return &GrpcHandler{svc: svc}
}

func (h *GrpcHandler) Compute(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var call computeCall
	if err := fromStruct(in, &call); err != nil {
		h.svc.metrics.rejected.WithLabelValues("grpc").Inc()
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	evt, err := h.svc.compute(ctx, "grpc", call.ProjectID, call.Request)
	if err != nil {
		if messages.IsValidation(err) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.FromContextError(err).Err()
	}
	out, err := toStruct(evt)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return out, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func fromStruct(s *structpb.Struct, out any) error {
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// PlannerClient calls a remote planner.
type PlannerClient struct {
	cc grpc.ClientConnInterface
}

func NewPlannerClient(cc grpc.ClientConnInterface) *PlannerClient {
	return &PlannerClient{cc: cc}
}

// DialPlanner opens a plaintext connection; the caller closes it.
func DialPlanner(addr string) (*grpc.ClientConn, *PlannerClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial planner %s: %w", addr, err)
	}
	return conn, NewPlannerClient(conn), nil
}

func (c *PlannerClient) Compute(ctx context.Context, projectID string, req messages.ScenarioRequest) (messages.PlanComputedEvent, error) {
	var evt messages.PlanComputedEvent
	in, err := toStruct(computeCall{ProjectID: projectID, Request: req})
	if err != nil {
		return evt, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, computeMethod, in, out); err != nil {
		return evt, err
	}
	if err := fromStruct(out, &evt); err != nil {
		return evt, fmt.Errorf("decode plan: %w", err)
	}
	return evt, nil
}
