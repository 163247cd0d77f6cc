package client

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/auth"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DefaultSignatureTTL is how long a request signature stays valid.
const DefaultSignatureTTL = 30 * time.Second

type signersKey struct{}

// withSigners attaches the keys that must sign the next call.
func withSigners(ctx context.Context, keys ...ed25519.PrivateKey) context.Context {
	return context.WithValue(ctx, signersKey{}, keys)
}

type EngineClient struct {
	conn         *grpc.ClientConn
	signatureTTL time.Duration
	timeout      time.Duration

	mu    sync.Mutex
	addrs *api.Addresses
}

// NewEngineClient connects to the engine at endpointURL. Extra dial options
// are appended after the defaults.
func NewEngineClient(endpointURL string, signatureTTL time.Duration, opts ...grpc.DialOption) (*EngineClient, error) {
	if signatureTTL <= 0 {
		signatureTTL = DefaultSignatureTTL
	}
	c := &EngineClient{signatureTTL: signatureTTL, timeout: 15 * time.Second}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.signingInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

// signingInterceptor signs the encoded request with every key attached to
// the context, binding each signature to the method and payload.
func (c *EngineClient) signingInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	keys, _ := ctx.Value(signersKey{}).([]ed25519.PrivateKey)
	if len(keys) > 0 {
		in, ok := req.(*wrapperspb.BytesValue)
		if !ok {
			return fmt.Errorf("cannot sign request of type %T", req)
		}
		for _, k := range keys {
			token, err := auth.Sign(k, method, in.GetValue(), c.signatureTTL)
			if err != nil {
				return err
			}
			ctx = metadata.AppendToOutgoingContext(ctx, common.SignatureHeaderName, token)
		}
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *EngineClient) call(ctx context.Context, method string, req, resp any, signers ...ed25519.PrivateKey) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if len(signers) > 0 {
		ctx = withSigners(ctx, signers...)
	}
	if err := rpc.Invoke(ctx, c.conn, method, req, resp); err != nil {
		return rpc.FromStatus(err)
	}
	return nil
}

// Addresses returns the engine's deterministic addresses. The result is
// cached for the lifetime of the client.
func (c *EngineClient) Addresses(ctx context.Context) (*api.Addresses, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.addrs != nil {
		return c.addrs, nil
	}
	var out api.Addresses
	if err := c.call(ctx, rpc.GetAddresses, nil, &out); err != nil {
		return nil, err
	}
	c.addrs = &out
	return c.addrs, nil
}

func (c *EngineClient) Close() error {
	return c.conn.Close()
}
