package page

import (
	"fmt"
	"reflect"
	"testing"
)

func buttons(n int) []Button {
	out := []Button{}
	for i := 0; i < n; i++ {
		out = append(out, Button{CustomID: fmt.Sprintf("assignRole_r%d", i), Label: fmt.Sprint(i)})
	}
	return out
}

var batch = []Button{{CustomID: "assignRole_getAll", Label: "Select all"}, {CustomID: "assignRole_outAll", Label: "Deselect all"}}

func TestPlanExample(t *testing.T) {
	header := Header{Title: "Games", Description: "Pick"}
	pages := Plan(header, buttons(7), batch)

	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	if len(pages[0].Controls) != 5 || len(pages[1].Controls) != 2 || len(pages[2].Controls) != 2 {
		t.Fatalf("unexpected page sizes")
	}
	if pages[0].Embed == nil || *pages[0].Embed != header {
		t.Fatalf("first page must carry the header")
	}
	if pages[1].Embed != nil || pages[2].Embed != nil {
		t.Fatalf("later pages must not carry an embed")
	}
	if !reflect.DeepEqual(pages[2].Controls, batch) {
		t.Fatalf("unexpected control page %+v", pages[2].Controls)
	}
}

func TestPlanExactness(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for _, b := range [][]Button{nil, batch} {
			in := buttons(n)
			pages := Plan(Header{Title: "T"}, in, b)

			want := (n + 4) / 5
			if len(b) > 0 {
				want++
			}
			if len(pages) != want {
				t.Fatalf("n=%d batch=%d: expected %d pages, got %d", n, len(b), want, len(pages))
			}

			var got []Button
			for i, p := range pages {
				if len(p.Controls) == 0 || len(p.Controls) > 5 {
					t.Fatalf("n=%d: page %d has %d controls", n, i, len(p.Controls))
				}
				if len(b) > 0 && i == len(pages)-1 {
					continue
				}
				got = append(got, p.Controls...)
			}
			if n > 0 && !reflect.DeepEqual(got, in) {
				t.Fatalf("n=%d: order not preserved", n)
			}
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	in := buttons(12)
	a := Plan(Header{Title: "T"}, in, batch)
	b := Plan(Header{Title: "T"}, in, batch)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical input produced different pages")
	}

	/* output does not alias input */
	a[0].Controls[0].Label = "changed"
	if in[0].Label == "changed" {
		t.Fatalf("page aliases input slice")
	}
}
