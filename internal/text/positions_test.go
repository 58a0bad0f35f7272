package text

import "testing"

func TestRangeValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		rng     Range
		wantErr bool
	}{
		{"empty", Range{}, false},
		{"forward", Range{Start: Position{0, 2}, End: Position{1, 0}}, false},
		{"same position", Range{Start: Position{3, 4}, End: Position{3, 4}}, false},
		{"end line before start", Range{Start: Position{2, 0}, End: Position{1, 0}}, true},
		{"end character before start", Range{Start: Position{1, 5}, End: Position{1, 4}}, true},
		{"negative start", Range{Start: Position{-1, 0}, End: Position{0, 0}}, true},
		{"negative character", Range{Start: Position{0, 0}, End: Position{0, -1}}, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.rng.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRangeIsEmpty(t *testing.T) {
	t.Parallel()

	if !(Range{Start: Position{1, 1}, End: Position{1, 1}}).IsEmpty() {
		t.Fatal("equal endpoints should be empty")
	}
	if (Range{Start: Position{1, 1}, End: Position{1, 2}}).IsEmpty() {
		t.Fatal("distinct endpoints should not be empty")
	}
}
