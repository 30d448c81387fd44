package db

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// StorageType is the ON clause of FT.CREATE.
type StorageType string

const StorageHash StorageType = "HASH"

// FieldKind is the schema type of an indexed field.
type FieldKind string

const (
	KindText   FieldKind = "TEXT"
	KindTag    FieldKind = "TAG"
	KindVector FieldKind = "VECTOR"
)

// DistanceMetric is the DISTANCE_METRIC of a vector field.
type DistanceMetric string

const (
	DistanceL2     DistanceMetric = "L2"
	DistanceIP     DistanceMetric = "IP"
	DistanceCosine DistanceMetric = "COSINE"
)

// VectorAlgorithm is the index algorithm of a vector field.
type VectorAlgorithm string

const (
	VectorHNSW VectorAlgorithm = "HNSW"
	VectorFlat VectorAlgorithm = "FLAT"
)

// VectorSpec describes a FLOAT32 vector field. Zero M and EFConstruction keep
// the server defaults; they are ignored for FLAT.
type VectorSpec struct {
	Algorithm      VectorAlgorithm
	Dim            int
	Metric         DistanceMetric
	M              int
	EFConstruction int
}

func (v *VectorSpec) args() []string {
	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(v.Dim),
		"DISTANCE_METRIC", string(v.Metric),
	}
	if v.Algorithm == VectorHNSW {
		if v.M > 0 {
			attrs = append(attrs, "M", strconv.Itoa(v.M))
		}
		if v.EFConstruction > 0 {
			attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(v.EFConstruction))
		}
	}
	return append([]string{string(KindVector), string(v.Algorithm), strconv.Itoa(len(attrs))}, attrs...)
}

// IndexField is one SCHEMA entry. Vector is required for KindVector only.
type IndexField struct {
	Name   string
	Kind   FieldKind
	Vector *VectorSpec
}

// IndexDefinition is the input of FT.CREATE.
type IndexDefinition struct {
	Name        string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
}

var identifierRe = regexp.MustCompile(`^[A-Za-z0-9_:-]+$`)

// Validate reports every problem of the definition at once.
func (d *IndexDefinition) Validate() error {
	var errs []error
	if !identifierRe.MatchString(d.Name) {
		errs = append(errs, fmt.Errorf("index name %q must match %s", d.Name, identifierRe))
	}
	if len(d.Fields) == 0 {
		errs = append(errs, errors.New("at least one field is required"))
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("field %d: name is required", i))
			continue
		}
		if _, dup := seen[f.Name]; dup {
			errs = append(errs, fmt.Errorf("field %s: duplicate name", f.Name))
		}
		seen[f.Name] = struct{}{}

		switch f.Kind {
		case KindText, KindTag:
		case KindVector:
			if f.Vector == nil || f.Vector.Dim <= 0 {
				errs = append(errs, fmt.Errorf("field %s: vector needs a positive dimension", f.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("field %s: unknown kind %q", f.Name, f.Kind))
		}
	}
	return errors.Join(errs...)
}

// CreateArgs renders the FT.CREATE arguments that follow the command name.
func (d *IndexDefinition) CreateArgs() ([]string, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	storage := d.StorageType
	if storage == "" {
		storage = StorageHash
	}
	args := []string{d.Name, "ON", string(storage)}
	if len(d.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(d.Prefixes)))
		args = append(args, d.Prefixes...)
	}

	args = append(args, "SCHEMA")
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Kind == KindVector {
			args = append(args, f.Name)
			args = append(args, f.Vector.args()...)
			continue
		}
		args = append(args, f.Name, string(f.Kind))
	}
	return args, nil
}

// IndexBuilder assembles a HASH index definition field by field.
type IndexBuilder struct {
	def IndexDefinition
}

func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name, StorageType: StorageHash}}
}

func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

func (b *IndexBuilder) Text(name string) *IndexBuilder {
	return b.field(IndexField{Name: name, Kind: KindText})
}

func (b *IndexBuilder) Tag(name string) *IndexBuilder {
	return b.field(IndexField{Name: name, Kind: KindTag})
}

// Vector adds a vector field. An empty algorithm means HNSW and an empty
// metric means COSINE.
func (b *IndexBuilder) Vector(name string, spec VectorSpec) *IndexBuilder {
	if spec.Algorithm == "" {
		spec.Algorithm = VectorHNSW
	}
	if spec.Metric == "" {
		spec.Metric = DistanceCosine
	}
	return b.field(IndexField{Name: name, Kind: KindVector, Vector: &spec})
}

func (b *IndexBuilder) field(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates the definition and returns a copy detached from the builder.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	def.Prefixes = append([]string(nil), b.def.Prefixes...)
	def.Fields = append([]IndexField(nil), b.def.Fields...)
	return &def, nil
}
