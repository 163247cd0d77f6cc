package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// signatureInterceptor verifies every request signature attached to the call
// and hands the signer set to the services through the context. A call
// without signatures runs with an empty signer set.
func (s *GRPCServer) signatureInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	var tokens []string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		tokens = md.Get(common.SignatureHeaderName)
	}
	if len(tokens) == 0 {
		return handler(ledger.WithSigners(ctx, ledger.NewSigners()), req)
	}

	in, ok := req.(*wrapperspb.BytesValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "unexpected request type")
	}

	signers := make([]pubkey.Address, 0, len(tokens))
	for _, t := range tokens {
		addr, err := s.verifier.Verify(t, info.FullMethod, in.GetValue())
		if err != nil {
			s.logger.Warn(ctx, "rejected request signature", "method", info.FullMethod, "error", err)
			if errors.Is(err, common.ErrReplayedRequest) {
				return nil, status.Error(codes.PermissionDenied, err.Error())
			}
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		signers = append(signers, addr)
	}

	return handler(ledger.WithSigners(ctx, ledger.NewSigners(signers...)), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	method := info.FullMethod[strings.LastIndex(info.FullMethod, "/")+1:]
	s.logger.Debug(ctx, "handled call", "method", method, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}
