package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "textsummarizer.v1.Summarizer"
	// SummarizeMethod is the full method name of the unary Summarize call.
	SummarizeMethod = "/" + ServiceName + "/Summarize"
)

// SummarizerService is the server side of textsummarizer.v1.Summarizer.
// Messages are google.protobuf.Struct values so that no generated code is
// needed; the field names match the JSON HTTP API.
type SummarizerService interface {
	Summarize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// SummarizerServiceDesc describes the service for grpc.Server.RegisterService.
var SummarizerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SummarizerService)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Summarize",
			Handler:    summarizeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "textsummarizer/v1/summarizer.proto",
}

func summarizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SummarizerService).Summarize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SummarizeMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SummarizerService).Summarize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls textsummarizer.v1.Summarizer over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient returns a Client using cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Summarize invokes the remote Summarize method.
func (c *Client) Summarize(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SummarizeMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
