package rendersvc

import (
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"clawid.dev/claw/renderer"
)

// Request struct field names.
const (
	FieldIdentityKey     = "identity_key"
	FieldTokenIndex      = "token_index"
	FieldCreationCounter = "creation_counter"
	FieldName            = "name"
	FieldDescription     = "description"
	FieldPhase           = "phase"
	FieldActivityCount   = "activity_count"
)

// maxExactFloat is the largest integer a JSON/Struct number holds exactly.
const maxExactFloat = 1 << 53

// EncodeRequest converts req to a Struct. 64-bit counters travel as decimal
// strings so values above 2^53 survive the float64 number type.
func EncodeRequest(req renderer.Request) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldIdentityKey:     structpb.NewStringValue(req.Key.String()),
		FieldTokenIndex:      structpb.NewStringValue(strconv.FormatUint(req.TokenIndex, 10)),
		FieldCreationCounter: structpb.NewStringValue(strconv.FormatUint(req.CreationCounter, 10)),
		FieldName:            structpb.NewStringValue(req.Name),
		FieldDescription:     structpb.NewStringValue(req.Description),
		FieldPhase:           structpb.NewNumberValue(float64(req.Phase)),
		FieldActivityCount:   structpb.NewStringValue(strconv.FormatUint(req.ActivityCount, 10)),
	}}
}

// DecodeRequest reads a render request from a Struct. identity_key is
// required; every other field defaults to its zero value.
func DecodeRequest(in *structpb.Struct) (renderer.Request, error) {
	var req renderer.Request
	fields := in.GetFields()

	keyVal, ok := fields[FieldIdentityKey]
	if !ok {
		return req, fmt.Errorf("missing %s", FieldIdentityKey)
	}
	sv, ok := keyVal.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return req, fmt.Errorf("%s must be a string", FieldIdentityKey)
	}
	k, err := renderer.ParseKey(sv.StringValue)
	if err != nil {
		return req, err
	}
	req.Key = k

	for _, f := range []struct {
		name string
		dst  *uint64
	}{
		{FieldTokenIndex, &req.TokenIndex},
		{FieldCreationCounter, &req.CreationCounter},
		{FieldActivityCount, &req.ActivityCount},
	} {
		v, err := uintField(fields, f.name)
		if err != nil {
			return req, err
		}
		*f.dst = v
	}
	p, err := uintField(fields, FieldPhase)
	if err != nil {
		return req, err
	}
	if p > math.MaxUint32 {
		p = math.MaxUint32
	}
	req.Phase = uint(p)

	if req.Name, err = stringField(fields, FieldName); err != nil {
		return req, err
	}
	if req.Description, err = stringField(fields, FieldDescription); err != nil {
		return req, err
	}
	return req, nil
}

func uintField(fields map[string]*structpb.Value, name string) (uint64, error) {
	v, ok := fields[name]
	if !ok {
		return 0, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return 0, nil
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n < 0 || n != math.Trunc(n) || n > maxExactFloat {
			return 0, fmt.Errorf("%s must be a non-negative integer below 2^53", name)
		}
		return uint64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseUint(kind.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number or decimal string", name)
	}
}

func stringField(fields map[string]*structpb.Value, name string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return "", nil
	case *structpb.Value_StringValue:
		return kind.StringValue, nil
	default:
		return "", fmt.Errorf("%s must be a string", name)
	}
}
