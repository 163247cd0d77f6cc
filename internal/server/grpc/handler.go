package grpc

import (
	"context"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/metadata"
	"github.com/dmitrijs2005/solcraft/internal/rpc"
	"github.com/dmitrijs2005/solcraft/internal/server/models"
	"github.com/dmitrijs2005/solcraft/internal/server/services"
	"github.com/dmitrijs2005/solcraft/internal/token"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type route func(ctx context.Context, in *wrapperspb.BytesValue) (any, error)

// call adapts a service operation taking a decoded request.
func call[Req, Resp any](fn func(context.Context, Req) (Resp, error)) route {
	return func(ctx context.Context, in *wrapperspb.BytesValue) (any, error) {
		var req Req
		if err := rpc.Decode(in, &req); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return fn(ctx, req)
	}
}

// exec adapts a service operation with no result.
func exec[Req any](fn func(context.Context, Req) error) route {
	return call(func(ctx context.Context, req Req) (struct{}, error) {
		return struct{}{}, fn(ctx, req)
	})
}

func newRoutes(e *services.Engine) map[string]route {
	factory := services.NewFactoryService(e)
	assets := services.NewAssetService(e)
	faucet := services.NewFaucetService(e)
	queries := services.NewQueryService(e)

	return map[string]route{
		rpc.InitializeFactory: call(factory.Initialize),
		rpc.UpdateCreationFee: exec(factory.UpdateCreationFee),
		rpc.PauseFactory:      exec(factory.Pause),
		rpc.UnpauseFactory:    exec(factory.Unpause),
		rpc.WithdrawFees: call(func(ctx context.Context, req api.WithdrawFeesRequest) (*api.WithdrawFeesResult, error) {
			n, err := factory.WithdrawFees(ctx, req)
			if err != nil {
				return nil, err
			}
			return &api.WithdrawFeesResult{Withdrawn: n}, nil
		}),

		rpc.CreateAsset:             call(assets.CreateAsset),
		rpc.MintMore:                exec(assets.MintMore),
		rpc.TransferMintAuthority:   exec(assets.TransferMintAuthority),
		rpc.TransferFreezeAuthority: exec(assets.TransferFreezeAuthority),

		rpc.InitializeFaucet: call(faucet.Initialize),
		rpc.Deposit:          exec(faucet.Deposit),
		rpc.Withdraw:         exec(faucet.Withdraw),
		rpc.Claim:            call(faucet.Claim),

		rpc.GetAddresses: call(func(context.Context, struct{}) (*api.Addresses, error) {
			return queries.Addresses()
		}),
		rpc.GetFactoryConfig: call(func(ctx context.Context, _ struct{}) (*models.FactoryConfig, error) {
			return queries.FactoryConfig(ctx)
		}),
		rpc.GetFaucetConfig: call(func(ctx context.Context, _ struct{}) (*models.FaucetConfig, error) {
			return queries.FaucetConfig(ctx)
		}),
		rpc.GetFaucetRecipient: call(func(ctx context.Context, q api.AccountQuery) (*models.FaucetRecipient, error) {
			return queries.FaucetRecipient(ctx, q.Address)
		}),
		rpc.GetBalance: call(func(ctx context.Context, q api.AccountQuery) (*api.BalanceResult, error) {
			n, err := queries.Lamports(ctx, q.Address)
			if err != nil {
				return nil, err
			}
			return &api.BalanceResult{Amount: n}, nil
		}),
		rpc.GetTokenBalance: call(func(ctx context.Context, q api.TokenBalanceQuery) (*api.BalanceResult, error) {
			n, err := queries.TokenBalance(ctx, q.Owner, q.Mint)
			if err != nil {
				return nil, err
			}
			return &api.BalanceResult{Amount: n}, nil
		}),
		rpc.GetMint: call(func(ctx context.Context, q api.AccountQuery) (*token.Mint, error) {
			return queries.Mint(ctx, q.Address)
		}),
		rpc.GetMetadata: call(func(ctx context.Context, q api.AccountQuery) (*metadata.Metadata, error) {
			return queries.Metadata(ctx, q.Address)
		}),
	}
}

// Handle dispatches a call to the service operation registered for method.
func (s *GRPCServer) Handle(ctx context.Context, method string, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	r, ok := s.routes[method]
	if !ok {
		return nil, status.Errorf(codes.Unimplemented, "method %s not implemented", method)
	}

	resp, err := r(ctx, in)
	if err != nil {
		if _, ok := status.FromError(err); ok {
			return nil, err
		}
		return nil, toStatus(err)
	}

	out, err := rpc.Encode(resp)
	if err != nil {
		s.logger.Error(ctx, "encoding response", "method", method, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}
