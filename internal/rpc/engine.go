// Package rpc describes the engine gRPC service without a protoc toolchain.
//
// Every method carries a JSON document from package api inside a
// wrapperspb.BytesValue, so the service descriptor is written by hand.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "solcraft.v1.Engine"

// Method names. Mutating methods require request signatures.
const (
	InitializeFactory       = "InitializeFactory"
	UpdateCreationFee       = "UpdateCreationFee"
	PauseFactory            = "PauseFactory"
	UnpauseFactory          = "UnpauseFactory"
	WithdrawFees            = "WithdrawFees"
	CreateAsset             = "CreateAsset"
	MintMore                = "MintMore"
	TransferMintAuthority   = "TransferMintAuthority"
	TransferFreezeAuthority = "TransferFreezeAuthority"
	InitializeFaucet        = "InitializeFaucet"
	Deposit                 = "Deposit"
	Withdraw                = "Withdraw"
	Claim                   = "Claim"

	GetAddresses       = "GetAddresses"
	GetFactoryConfig   = "GetFactoryConfig"
	GetFaucetConfig    = "GetFaucetConfig"
	GetFaucetRecipient = "GetFaucetRecipient"
	GetBalance         = "GetBalance"
	GetTokenBalance    = "GetTokenBalance"
	GetMint            = "GetMint"
	GetMetadata        = "GetMetadata"
)

// Methods lists every method of the service in registration order.
var Methods = []string{
	InitializeFactory, UpdateCreationFee, PauseFactory, UnpauseFactory, WithdrawFees,
	CreateAsset, MintMore, TransferMintAuthority, TransferFreezeAuthority,
	InitializeFaucet, Deposit, Withdraw, Claim,
	GetAddresses, GetFactoryConfig, GetFaucetConfig, GetFaucetRecipient,
	GetBalance, GetTokenBalance, GetMint, GetMetadata,
}

// FullMethod returns the path gRPC uses for method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// EngineServer is the server API for the engine service.
type EngineServer interface {
	Handle(ctx context.Context, method string, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedEngineServer can be embedded to have forward compatible implementations.
type UnimplementedEngineServer struct{}

func (UnimplementedEngineServer) Handle(_ context.Context, method string, _ *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

// RegisterEngineServer registers the engine service on a gRPC server.
func RegisterEngineServer(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&Engine_ServiceDesc, srv)
}

func handler(method string) grpc.MethodHandler {
	full := FullMethod(method)
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.BytesValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return srv.(EngineServer).Handle(ctx, method, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
		h := func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.(EngineServer).Handle(ctx, method, req.(*wrapperspb.BytesValue))
		}
		return interceptor(ctx, in, info, h)
	}
}

func methodDescs() []grpc.MethodDesc {
	out := make([]grpc.MethodDesc, 0, len(Methods))
	for _, m := range Methods {
		out = append(out, grpc.MethodDesc{MethodName: m, Handler: handler(m)})
	}
	return out
}

// Engine_ServiceDesc is the grpc.ServiceDesc for the engine service.
var Engine_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineServer)(nil),
	Methods:     methodDescs(),
	Streams:     []grpc.StreamDesc{},
	Metadata:    "engine.proto",
}

// Encode wraps a JSON encoding of v.
func Encode(v any) (*wrapperspb.BytesValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return wrapperspb.Bytes(b), nil
}

// Decode unwraps in into v. An empty payload leaves v untouched.
func Decode(in *wrapperspb.BytesValue, v any) error {
	if len(in.GetValue()) == 0 {
		return nil
	}
	if err := json.Unmarshal(in.GetValue(), v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Invoke calls method on cc with req encoded as JSON and decodes the reply
// into resp, which may be nil.
func Invoke(ctx context.Context, cc grpc.ClientConnInterface, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := Encode(req)
	if err != nil {
		return err
	}
	out := new(wrapperspb.BytesValue)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return Decode(out, resp)
}
