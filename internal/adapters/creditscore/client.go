package creditscore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// GetCreditLimitMethod は外部与信サービスの RPC 名です。
const GetCreditLimitMethod = "/creditscore.v1.CreditScoreService/GetCreditLimit"

// maxCreditLimit は 2 倍しても customers.credit_limit (INTEGER) に収まる上限です。
const maxCreditLimit = math.MaxInt32 / 2

// ErrMalformedResponse は応答に与信枠が含まれない場合のエラーです。
var ErrMalformedResponse = errors.New("creditscore: malformed response")

// Client は外部与信サービスの gRPC クライアントです。接続は Client が所有します。
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewClient は address に接続するクライアントを生成します。
// opts が空の場合は平文の接続を利用します。
func NewClient(address string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("creditscore: dial %s: %w", address, err)
	}

	return &Client{conn: conn, timeout: timeout}, nil
}

// GetCreditLimit は氏名と生年月日から基準与信枠を取得します。
func (c *Client) GetCreditLimit(ctx context.Context, firstName, lastName string, dateOfBirth time.Time) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := structpb.NewStruct(map[string]any{
		"first_name":    firstName,
		"last_name":     lastName,
		"date_of_birth": dateOfBirth.Format(time.DateOnly),
	})
	if err != nil {
		return 0, fmt.Errorf("creditscore: build request: %w", err)
	}

	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, GetCreditLimitMethod, req, resp); err != nil {
		return 0, fmt.Errorf("creditscore: get credit limit: %w", err)
	}

	return creditLimitFrom(resp)
}

// Close は接続を解放します。
func (c *Client) Close() error {
	return c.conn.Close()
}

func creditLimitFrom(resp *structpb.Struct) (int, error) {
	v, ok := resp.GetFields()["credit_limit"]
	if !ok {
		return 0, fmt.Errorf("%w: credit_limit is missing", ErrMalformedResponse)
	}

	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: credit_limit is not a number", ErrMalformedResponse)
	}

	if n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("%w: credit_limit %v is not an integer", ErrMalformedResponse, n.NumberValue)
	}
	if math.Abs(n.NumberValue) > maxCreditLimit {
		return 0, fmt.Errorf("%w: credit_limit %v is out of range", ErrMalformedResponse, n.NumberValue)
	}

	return int(n.NumberValue), nil
}
