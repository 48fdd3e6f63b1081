package model

import "slices"

type RecordField struct {
	Name string
	Type TypeID
}

// RecordInfo keeps fields in declaration order; order is part of identity.
type RecordInfo struct {
	Fields []RecordField
}

// Field returns the type of the named field.
func (r *RecordInfo) Field(name string) (TypeID, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return NoType, false
}

// InternRecord returns the canonical record type with fields. A field is
// optional exactly when its type includes Undefined.
func (in *Interner) InternRecord(fields []RecordField) TypeID {
	bucket := len(fields)
	for _, id := range in.recordBuckets[bucket] {
		if slices.Equal(in.records[in.types[id].Payload].Fields, fields) {
			return id
		}
	}
	in.records = append(in.records, RecordInfo{Fields: slices.Clone(fields)})
	id := in.add(Type{Kind: KindRecord, Payload: slot(len(in.records) - 1)})
	in.recordBuckets[bucket] = append(in.recordBuckets[bucket], id)
	return id
}

func (in *Interner) Record(id TypeID) *RecordInfo {
	if p, ok := in.payload(id, KindRecord); ok {
		return &in.records[p]
	}
	return nil
}
