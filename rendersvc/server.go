// Package rendersvc exposes the renderer over a codegen-free gRPC service.
package rendersvc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"clawid.dev/claw/compliance"
	"clawid.dev/claw/keys"
	"clawid.dev/claw/receipt"
	"clawid.dev/claw/renderer"
)

// Server implements RendererServer on top of the pure renderer.
type Server struct {
	UnimplementedRendererServer

	// Mode Strict rejects names outside the registry charset.
	Mode compliance.ComplianceMode
	// Signer signs receipts when set; otherwise receipts are unsigned.
	Signer keys.Signer
	// HashAlg selects the receipt digest; empty means sha256.
	HashAlg string
}

func (s *Server) request(in *structpb.Struct) (renderer.Request, error) {
	req, err := DecodeRequest(in)
	if err != nil {
		return req, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := req.Validate(s.Mode); err != nil {
		return req, status.Error(codes.InvalidArgument, err.Error())
	}
	return req, nil
}

func (s *Server) RenderMarkup(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing server")
	}
	req, err := s.request(in)
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(renderer.RenderMarkupWithPhase(req.Key, req.TokenIndex, req.CreationCounter, req.Name, req.Phase, req.ActivityCount)), nil
}

func (s *Server) RenderDocument(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing server")
	}
	req, err := s.request(in)
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(renderer.Render(req).Document), nil
}

func (s *Server) Receipt(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing server")
	}
	req, err := s.request(in)
	if err != nil {
		return nil, err
	}
	data, err := receipt.Issue(req, receipt.IssueOptions{Signer: s.Signer, HashAlg: s.HashAlg})
	if err != nil {
		if receipt.IsKind(err, receipt.KindCrypto) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.String(string(data)), nil
}
