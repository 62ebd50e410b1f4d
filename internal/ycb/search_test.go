package ycb

import "testing"

func TestSearch(t *testing.T) {
	r := Default()
	tests := []struct {
		query string
		want  []int
	}{
		{"mustard", []int{5}},
		{"CLAMP", []int{19, 20}},
		{"large clamp", []int{19, 20}},
		{"extra large", []int{20}},
		{"can", []int{1, 4, 6, 9}},
		{"14", []int{14}},
		{"box pudding", []int{7}},
		{"", nil},
		{"  ", nil},
		{"spoon", nil},
	}
	for _, tc := range tests {
		got := r.Search(tc.query)
		if len(got) != len(tc.want) {
			t.Errorf("Search(%q) = %v, want ids %v", tc.query, got, tc.want)
			continue
		}
		for i, o := range got {
			if o.ID != tc.want[i] {
				t.Errorf("Search(%q)[%d] = %d, want %d", tc.query, i, o.ID, tc.want[i])
			}
		}
	}
}
