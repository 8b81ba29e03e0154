package handler

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func optionalStringField(req *structpb.Struct, name string) *string {
	v, ok := req.GetFields()[name]
	if !ok {
		return nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}
	s := v.GetStringValue()
	return &s
}

// intField は数値または数値文字列のフィールドを整数として読み取ります。未指定の場合は ok=false です。
func intField(req *structpb.Struct, name string) (int64, bool, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, false, nil
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return 0, false, nil
	case *structpb.Value_NumberValue:
		if kind.NumberValue != math.Trunc(kind.NumberValue) {
			return 0, false, invalidField(name, "must be an integer")
		}
		// float64(math.MaxInt64) は 2^63 に丸められるため等号も範囲外です。
		if math.Abs(kind.NumberValue) >= math.MaxInt64 {
			return 0, false, invalidField(name, "is out of range")
		}
		return int64(kind.NumberValue), true, nil
	case *structpb.Value_StringValue:
		if kind.StringValue == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil {
			return 0, false, invalidField(name, "must be an integer")
		}
		return n, true, nil
	default:
		return 0, false, invalidField(name, "must be an integer")
	}
}

func dateField(req *structpb.Struct, name string) (time.Time, error) {
	raw := stringField(req, name)
	if raw == "" {
		return time.Time{}, invalidField(name, "is required")
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, invalidField(name, "must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

func invalidField(name, reason string) error {
	return status.Error(codes.InvalidArgument, fmt.Sprintf("%s %s", name, reason))
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
