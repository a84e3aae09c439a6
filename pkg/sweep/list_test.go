package sweep

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var valueCmp = cmp.Comparer(Value.Equal)

func TestParseList(t *testing.T) {
	got, err := ParseList("1, 2 ,3", ",", ConvertInteger)
	if err != nil {
		t.Fatalf("ParseList error: %v", err)
	}
	if diff := cmp.Diff([]Value{Int(1), Int(2), Int(3)}, got, valueCmp); diff != "" {
		t.Errorf("ParseList mismatch (-want +got):\n%s", diff)
	}

	got, err = ParseList("euler|ddim", "|", ConvertDisabled)
	if err != nil {
		t.Fatalf("ParseList error: %v", err)
	}
	if diff := cmp.Diff([]Value{Str("euler"), Str("ddim")}, got, valueCmp); diff != "" {
		t.Errorf("ParseList mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseList("1,x", ",", ConvertInteger); err == nil {
		t.Error("ParseList(1,x) should fail")
	}
}

func TestParseLines(t *testing.T) {
	text := "# samplers\neuler\n\n  dpm++ 2m  \n#ddim\n"
	got, err := ParseLines(text, true, ConvertDisabled)
	if err != nil {
		t.Fatalf("ParseLines error: %v", err)
	}
	if diff := cmp.Diff([]Value{Str("euler"), Str("dpm++ 2m")}, got, valueCmp); diff != "" {
		t.Errorf("ParseLines mismatch (-want +got):\n%s", diff)
	}

	got, err = ParseLines(text, false, ConvertDisabled)
	if err != nil {
		t.Fatalf("ParseLines error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("ParseLines without stripping = %d values, want 4", len(got))
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		spec    string
		conv    Conversion
		want    []Value
		wantErr bool
	}{
		{"1:5:2", ConvertDisabled, []Value{Int(1), Int(3), Int(5)}, false},
		{"0:1:1", ConvertFloat, []Value{Float(0), Float(1)}, false},
		{"0.1:0.3:0.1", ConvertDisabled, []Value{Float(0.1), Float(0.2), Float(0.3)}, false},
		{"5:1:1", ConvertDisabled, nil, true},
		{"1:5:0", ConvertDisabled, nil, true},
		{"1:5", ConvertDisabled, nil, true},
		{"a:b:c", ConvertDisabled, nil, true},
		{"0:100000:1", ConvertDisabled, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseRange(tt.spec, tt.conv)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got, valueCmp); diff != "" {
				t.Errorf("ParseRange(%q) mismatch (-want +got):\n%s", tt.spec, diff)
			}
		})
	}
}
