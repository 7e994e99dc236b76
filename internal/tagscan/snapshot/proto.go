package snapshot

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

// ProtoFile is a snapshot encoded as a binary google.protobuf.ListValue of
// Struct values keyed like the JSON export.  Devices provisioned over the
// protobuf channel receive this form.
type ProtoFile struct {
	Path string
}

func (f ProtoFile) Load(context.Context) ([]types.RawAsset, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeProto(data)
}

// DecodeProto parses a ListValue snapshot.  Numbers and booleans are
// rendered as text; unknown keys are ignored.
func DecodeProto(data []byte) ([]types.RawAsset, error) {
	var list structpb.ListValue
	if err := proto.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse snapshot proto: %w", err)
	}

	raws := make([]types.RawAsset, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		st := v.GetStructValue()
		if st == nil {
			return nil, fmt.Errorf("parse snapshot proto: row %d is not an object", i)
		}
		var raw types.RawAsset
		for key, fv := range st.GetFields() {
			if p := fieldPtr(&raw, key); p != nil {
				*p = valueText(fv)
			}
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// EncodeProto is the inverse of DecodeProto.
func EncodeProto(raws []types.RawAsset) ([]byte, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(raws))}
	for i := range raws {
		fields := make(map[string]*structpb.Value, len(fieldKeys))
		for _, key := range fieldKeys {
			fields[key] = structpb.NewStringValue(*fieldPtr(&raws[i], key))
		}
		list.Values = append(list.Values, structpb.NewStructValue(&structpb.Struct{Fields: fields}))
	}
	data, err := proto.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot proto: %w", err)
	}
	return data, nil
}

func writeProto(path string, raws []types.RawAsset) error {
	data, err := EncodeProto(raws)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

var fieldKeys = []string{
	"serviceTag",
	"firstName", "lastName", "jobTitle", "avyNDepartment", "company",
	"mail", "mobile", "workLocationDescription", "badgeId",
	"assetTag", "modelName", "assetTypeName", "manufacturerName", "areaName",
	"observation", "inventoryDate",
}

func fieldPtr(r *types.RawAsset, key string) *string {
	switch key {
	case "serviceTag":
		return &r.ServiceTag
	case "firstName":
		return &r.FirstName
	case "lastName":
		return &r.LastName
	case "jobTitle":
		return &r.JobTitle
	case "avyNDepartment":
		return &r.Department
	case "company":
		return &r.Company
	case "mail":
		return &r.Email
	case "mobile":
		return &r.Phone
	case "workLocationDescription":
		return &r.WorkLocation
	case "badgeId":
		return &r.BadgeID
	case "assetTag":
		return &r.AssetTag
	case "modelName":
		return &r.ModelName
	case "assetTypeName":
		return &r.AssetType
	case "manufacturerName":
		return &r.Manufacturer
	case "areaName":
		return &r.Area
	case "observation":
		return &r.Observation
	case "inventoryDate":
		return &r.InventoryDate
	}
	return nil
}

func valueText(v *structpb.Value) string {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	default:
		return ""
	}
}
