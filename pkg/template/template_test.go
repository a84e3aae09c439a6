package template

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApply(t *testing.T) {
	vars := map[string]string{"current_page": "2", "total_pages": "5"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "Steps sweep", "Steps sweep"},
		{"empty", "", ""},
		{"single", "Page {current_page}", "Page 2"},
		{"both", "{current_page}/{total_pages}", "2/5"},
		{"spec ignored", "Page {current_page:>3}", "Page 2"},
		{"escaped braces", "{{literal}} {total_pages}", "{literal} 5"},
		{"newline escape", `Page\n{current_page}`, "Page\n2"},
		{"unclosed brace", "Page {current_page", "Page {current_page"},
		{"unknown", "Page {page} of {total_pages}", "Error: unknown variable 'page'"},
		{"empty placeholder", "Page {}", "Page {}"},
		{"empty placeholder with spec", "{:>3} {current_page}", "{:>3} 2"},
		{"blank placeholder", "{ }/{total_pages}", "{ }/5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.text, vars); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestApplyDimensionLabel(t *testing.T) {
	got := Apply("cfg = {dim1}", map[string]string{"dim1": "7.5"})
	if got != "cfg = 7.5" {
		t.Errorf("Apply() = %q, want %q", got, "cfg = 7.5")
	}
}

func TestNames(t *testing.T) {
	got := Names("{a} {{skip}} {b:>2} {a} {c!r}")
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if got := Names("{} {:>3} { }"); got != nil {
		t.Errorf("Names() of empty placeholders = %v, want nil", got)
	}
	if got := Names("no placeholders"); got != nil {
		t.Errorf("Names() = %v, want nil", got)
	}
}
