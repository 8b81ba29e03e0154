package creditscore

import (
	"context"
	"errors"
	"math"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeCreditServer struct {
	respond func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	got     chan *structpb.Struct
}

var fakeCreditServiceDesc = grpc.ServiceDesc{
	ServiceName: "creditscore.v1.CreditScoreService",
	HandlerType: (*interface{})(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "GetCreditLimit",
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
			in := &structpb.Struct{}
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*fakeCreditServer)
			s.got <- in
			return s.respond(ctx, in)
		},
	}},
	Streams: []grpc.StreamDesc{},
}

func startCreditServer(t *testing.T, fake *fakeCreditServer, timeout time.Duration) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	srv.RegisterService(&fakeCreditServiceDesc, fake)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	client, err := NewClient("passthrough:///bufnet", timeout,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func numberResponse(v float64) func(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return func(context.Context, *structpb.Struct) (*structpb.Struct, error) {
		return &structpb.Struct{Fields: map[string]*structpb.Value{"credit_limit": structpb.NewNumberValue(v)}}, nil
	}
}

func TestClient_GetCreditLimit(t *testing.T) {
	t.Parallel()

	fake := &fakeCreditServer{respond: numberResponse(750), got: make(chan *structpb.Struct, 1)}
	client := startCreditServer(t, fake, time.Second)

	dob := time.Date(1990, time.February, 3, 0, 0, 0, 0, time.UTC)
	limit, err := client.GetCreditLimit(context.Background(), "Joe", "Bloggs", dob)
	if err != nil {
		t.Fatalf("GetCreditLimit returned error: %v", err)
	}

	if limit != 750 {
		t.Fatalf("expected 750, got %d", limit)
	}

	req := <-fake.got
	fields := req.GetFields()
	if fields["first_name"].GetStringValue() != "Joe" || fields["last_name"].GetStringValue() != "Bloggs" {
		t.Fatalf("unexpected name fields: %v", req)
	}
	if fields["date_of_birth"].GetStringValue() != "1990-02-03" {
		t.Fatalf("unexpected date of birth: %s", fields["date_of_birth"].GetStringValue())
	}
}

func TestClient_GetCreditLimit_RemoteError(t *testing.T) {
	t.Parallel()

	fake := &fakeCreditServer{
		respond: func(context.Context, *structpb.Struct) (*structpb.Struct, error) {
			return nil, status.Error(codes.Unavailable, "down")
		},
		got: make(chan *structpb.Struct, 1),
	}
	client := startCreditServer(t, fake, time.Second)

	_, err := client.GetCreditLimit(context.Background(), "Joe", "Bloggs", time.Now())
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}
}

func TestClient_GetCreditLimit_Timeout(t *testing.T) {
	t.Parallel()

	fake := &fakeCreditServer{
		respond: func(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
		got: make(chan *structpb.Struct, 1),
	}
	client := startCreditServer(t, fake, 50*time.Millisecond)

	_, err := client.GetCreditLimit(context.Background(), "Joe", "Bloggs", time.Now())
	if status.Code(err) != codes.DeadlineExceeded {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestCreditLimitFrom_Malformed(t *testing.T) {
	t.Parallel()

	cases := map[string]*structpb.Struct{
		"missing":    {Fields: map[string]*structpb.Value{}},
		"string":     {Fields: map[string]*structpb.Value{"credit_limit": structpb.NewStringValue("500")}},
		"fractional": {Fields: map[string]*structpb.Value{"credit_limit": structpb.NewNumberValue(500.5)}},
		"overflow":   {Fields: map[string]*structpb.Value{"credit_limit": structpb.NewNumberValue(math.MaxInt32/2 + 1)}},
		"negative":   {Fields: map[string]*structpb.Value{"credit_limit": structpb.NewNumberValue(-math.MaxInt32)}},
	}

	for name, resp := range cases {
		if _, err := creditLimitFrom(resp); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("%s: expected ErrMalformedResponse, got %v", name, err)
		}
	}
}

func TestCreditLimitFrom_UpperBound(t *testing.T) {
	t.Parallel()

	resp := &structpb.Struct{Fields: map[string]*structpb.Value{"credit_limit": structpb.NewNumberValue(math.MaxInt32 / 2)}}
	got, err := creditLimitFrom(resp)
	if err != nil {
		t.Fatalf("creditLimitFrom returned error: %v", err)
	}
	if got*2 > math.MaxInt32 {
		t.Fatalf("doubled limit %d exceeds INTEGER range", got*2)
	}
}
