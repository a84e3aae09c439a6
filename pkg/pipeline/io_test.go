package pipeline

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/sweep"
)

func TestEncodeDecodeImage(t *testing.T) {
	for _, format := range []string{FormatPNG, FormatJPEG} {
		t.Run(format, func(t *testing.T) {
			data, err := EncodeBytes(tile(12, 7), format)
			if err != nil {
				t.Fatalf("EncodeBytes() error: %v", err)
			}
			img, err := DecodeImage(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("DecodeImage() error: %v", err)
			}
			if got := img.Bounds().Size(); got != image.Pt(12, 7) {
				t.Errorf("decoded size = %v, want (12,7)", got)
			}
		})
	}

	if _, err := EncodeBytes(tile(1, 1), "tiff"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("EncodeBytes(tiff) error = %v, want INVALID_INPUT", err)
	}
	if _, err := DecodeImage(bytes.NewReader([]byte("nope"))); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("DecodeImage(garbage) error = %v, want INVALID_INPUT", err)
	}
	if ContentType(FormatJPEG) != "image/jpeg" || ContentType(FormatPNG) != "image/png" {
		t.Error("ContentType mismatch")
	}
}

func TestDirSinkFilenames(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		format   string
		want     string
		code     errors.Code
	}{
		{"default", "", FormatPNG, "xyplot_2_of_3.png", ""},
		{"extension follows format", "p{current_page}.png", FormatJPEG, "p2.jpg", ""},
		{"extension added", "page-{current_page}-{total_pages}", FormatPNG, "page-2-3.png", ""},
		{"unknown variable", "{seed}.png", FormatPNG, "", errors.ErrCodeInvalidPath},
		{"path separator", "a/{current_page}.png", FormatPNG, "", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &DirSink{Dir: t.TempDir(), Filename: tt.filename}
			got, err := s.filename(PageOutput{Page: 2, TotalPages: 3, Format: tt.format})
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("filename() error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("filename() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDirSinkWritePage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := &DirSink{Dir: dir}
	if err := s.WritePage(context.Background(), PageOutput{Image: tile(5, 5), Page: 1, TotalPages: 1, Format: FormatPNG}); err != nil {
		t.Fatalf("WritePage() error: %v", err)
	}
	want := []string{filepath.Join(dir, "xyplot_1_of_1.png")}
	if diff := cmp.Diff(want, s.Written); diff != "" {
		t.Errorf("Written mismatch (-want +got):\n%s", diff)
	}
	img, err := imaging.Open(want[0])
	if err != nil {
		t.Fatalf("open written page: %v", err)
	}
	if img.Bounds().Dx() != 5 {
		t.Errorf("written width = %d, want 5", img.Bounds().Dx())
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "c.png"} {
		if err := imaging.Save(tile(3, 3), filepath.Join(dir, name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewFileSource(filepath.Join(dir, "*.png"))
	if err != nil {
		t.Fatalf("NewFileSource() error: %v", err)
	}
	var names []string
	for _, p := range src.Paths {
		names = append(names, filepath.Base(p))
	}
	if diff := cmp.Diff([]string{"a.png", "b.png", "c.png"}, names); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	ctx := context.Background()
	if _, err := src.Image(ctx, sweep.Record{Index: 2}); err != nil {
		t.Errorf("Image(2) error: %v", err)
	}
	if _, err := src.Image(ctx, sweep.Record{Index: 3}); !errors.Is(err, errors.ErrCodeIndexOutOfRange) {
		t.Errorf("Image(3) error = %v, want INDEX_OUT_OF_RANGE", err)
	}

	if _, err := NewFileSource(filepath.Join(dir, "*.jpg")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("NewFileSource(no match) error = %v, want NOT_FOUND", err)
	}
}

func TestSwatchSource(t *testing.T) {
	src := NewSwatchSource(0, 32)
	rec, _ := sweep.Index(intDims(2, 2), 3)
	img, err := src.Image(context.Background(), rec)
	if err != nil {
		t.Fatalf("Image() error: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(DefaultCellSize, 32) {
		t.Errorf("swatch size = %v", got)
	}
	if SwatchColor(0) == SwatchColor(1) {
		t.Error("consecutive swatches share a colour")
	}
}

func TestDimSpecParse(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "vals.txt")
	if err := os.WriteFile(file, []byte("# cfg\n1.5\n2.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		spec    DimSpec
		want    []sweep.Value
		wantErr bool
	}{
		{"empty", DimSpec{}, nil, false},
		{"list", DimSpec{Values: "a;b", Separator: ";"}, []sweep.Value{sweep.Str("a"), sweep.Str("b")}, false},
		{"range", DimSpec{Range: "1:3:1"}, []sweep.Value{sweep.Int(1), sweep.Int(2), sweep.Int(3)}, false},
		{"file", DimSpec{File: file, StripComments: true, Type: "float"}, []sweep.Value{sweep.Float(1.5), sweep.Float(2.5)}, false},
		{"missing file", DimSpec{File: filepath.Join(dir, "nope")}, nil, true},
		{"two sources", DimSpec{Values: "1", Range: "1:2:1"}, nil, true},
		{"bad type", DimSpec{Values: "1", Type: "complex"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Parse()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got, cmp.Comparer(sweep.Value.Equal)); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDims(t *testing.T) {
	d, err := ParseDims(DimSpec{Values: "1,2,3", Type: "integer"}, DimSpec{}, 2, 0)
	if err != nil {
		t.Fatalf("ParseDims() error: %v", err)
	}
	if d.Total() != 3 || d.TotalPages() != 2 {
		t.Errorf("ParseDims() total=%d pages=%d, want 3, 2", d.Total(), d.TotalPages())
	}
	if _, err := ParseDims(DimSpec{}, DimSpec{Values: "x"}, 0, 0); !errors.Is(err, errors.ErrCodeEmptyList) {
		t.Errorf("ParseDims(empty dim1) error = %v, want EMPTY_LIST", err)
	}
}

func TestPlanPages(t *testing.T) {
	d := intDims(3, 5)
	d.MaxDim1PerPage = 2
	d.MaxDim2PerPage = 3
	got, err := PlanPages(d)
	if err != nil {
		t.Fatalf("PlanPages() error: %v", err)
	}
	want := []PageShape{
		{Number: 1, FirstIndex: 0, Rows: 2, Cols: 3},
		{Number: 2, FirstIndex: 6, Rows: 2, Cols: 2},
		{Number: 3, FirstIndex: 10, Rows: 1, Cols: 3},
		{Number: 4, FirstIndex: 13, Rows: 1, Cols: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PlanPages() mismatch (-want +got):\n%s", diff)
	}
	var cells int
	for _, p := range got {
		cells += p.Cells()
	}
	if cells != d.Total() {
		t.Errorf("pages hold %d cells, want %d", cells, d.Total())
	}
}
