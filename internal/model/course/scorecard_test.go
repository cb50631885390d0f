package course

import (
	"reflect"
	"testing"
)

func TestParseCSVNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int
	}{
		{"empty", "", nil},
		{"simple", "4,5,3", []int{4, 5, 3}},
		{"blank segments", "4,,5, ,3", []int{4, 5, 3}},
		{"whitespace", " 4 , 5 ", []int{4, 5}},
		{"non numeric skipped", "4,x,5", []int{4, 5}},
		{"zeros kept", "0,0,4", []int{0, 0, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCSVNumbers(tt.in)
			if tt.want == nil {
				if len(got) != 0 {
					t.Fatalf("expected empty result, got %v", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseCSVNumbers(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
