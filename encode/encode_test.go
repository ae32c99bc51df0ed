package encode

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/anvil-build/anvil/parse"
)

func dump(t *testing.T, src string) string {
	t.Helper()
	root, err := parse.String(src)
	if err != nil {
		t.Fatal(err)
	}
	defer root.Release()
	var b strings.Builder
	if err := Encode(root, &b); err != nil {
		t.Fatal(err)
	}
	return b.String()
}

func TestEncode(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{
			src: "package: \"demo\"\nversion: \"0.1.0\"\n",
			want: "package: \"demo\"\n" +
				"version: \"0.1.0\"\n",
		},
		{
			src: "build: {compiler: \"cc\", macros: {DEBUG: 1,},}\n",
			want: "build:\n" +
				"  compiler: \"cc\"\n" +
				"  macros:\n" +
				"    DEBUG: 1\n",
		},
		{
			src: "flags: [\"-O2\", \"-flto\"]\nextras: []\nmeta: {}\n",
			want: "flags:\n" +
				"  - \"-O2\"\n" +
				"  - \"-flto\"\n" +
				"extras: []\n" +
				"meta: {}\n",
		},
		{
			src: "a: 1_000\nb: -1.5\nc: true\n",
			want: "a: 1000\n" +
				"b: -1.5\n" +
				"c: true\n",
		},
	}
	for _, tt := range tests {
		if d := cmp.Diff(tt.want, dump(t, tt.src)); d != "" {
			t.Errorf("Encode(%q) (-want +got):\n%s", tt.src, d)
		}
	}
}

func TestEncodeMarksSharedNodes(t *testing.T) {
	src := "base: &flags [\"-O2\"]\nfast: *flags\n"
	want := "base:  # shared x2\n" +
		"  - \"-O2\"\n" +
		"fast:  # shared x2\n" +
		"  - \"-O2\"\n"
	if d := cmp.Diff(want, dump(t, src)); d != "" {
		t.Fatal(d)
	}
}

func TestColorsEscapePercent(t *testing.T) {
	c := NewColors()
	got := c.Field("100%")
	if !strings.Contains(got, "100%") {
		t.Fatalf("Field mangled percent: %q", got)
	}
}
