package pipeline

import (
	"fmt"
	"os"

	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/sweep"
)

// DimSpec describes where the values of one sweep dimension come from.
// Exactly one of Values, File and Range may be set; an all-empty spec is an
// empty dimension.
type DimSpec struct {
	Values        string `toml:"values" json:"values,omitempty"`       // separated list
	Separator     string `toml:"separator" json:"separator,omitempty"` // list separator, default ","
	File          string `toml:"file" json:"file,omitempty"`           // one value per line
	StripComments bool   `toml:"strip_comments" json:"strip_comments,omitempty"`
	Range         string `toml:"range" json:"range,omitempty"` // min:max:step
	Type          string `toml:"type" json:"type,omitempty"`   // conversion applied to every value
}

// Empty reports whether no source is set.
func (s DimSpec) Empty() bool {
	return s.Values == "" && s.File == "" && s.Range == ""
}

// Parse resolves the dimension into converted values.
func (s DimSpec) Parse() ([]sweep.Value, error) {
	conv, err := sweep.ParseConversion(s.Type)
	if err != nil {
		return nil, err
	}

	sources := 0
	for _, set := range []bool{s.Values != "", s.File != "", s.Range != ""} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return nil, nil
	case sources > 1:
		return nil, errors.New(errors.ErrCodeInvalidInput, "only one of values, file and range may be set")
	}

	switch {
	case s.Range != "":
		return sweep.ParseRange(s.Range, conv)
	case s.File != "":
		data, err := os.ReadFile(s.File)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read values file %s", s.File)
		}
		return sweep.ParseLines(string(data), s.StripComments, conv)
	default:
		return sweep.ParseList(s.Values, s.Separator, conv)
	}
}

// ParseDims resolves both dimension specs into sweep dimensions with the
// given per-page caps.
func ParseDims(dim1, dim2 DimSpec, maxDim1, maxDim2 int) (sweep.Dims, error) {
	v1, err := dim1.Parse()
	if err != nil {
		return sweep.Dims{}, fmt.Errorf("dim1: %w", err)
	}
	v2, err := dim2.Parse()
	if err != nil {
		return sweep.Dims{}, fmt.Errorf("dim2: %w", err)
	}
	d := sweep.Dims{
		Dim1:           v1,
		Dim2:           v2,
		MaxDim1PerPage: maxDim1,
		MaxDim2PerPage: maxDim2,
	}
	if err := d.Validate(); err != nil {
		return sweep.Dims{}, err
	}
	return d, nil
}
