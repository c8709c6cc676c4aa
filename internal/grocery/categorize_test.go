package grocery

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"milk", "Dairy"},
		{"Bananas", "Produce"},
		{"chicken breast", "Meat & Seafood"},
		{"whole wheat bread", "Bakery"},
		{"Bagels", "Bakery"},
		{"pasta", "Pantry"},
		{"coffee", "Beverages"},
		{"frozen pizza", "Frozen"},
		{"pretzel sticks", "Snacks"},
		{"paper towels", "Household"},
		{"shampoo", "Personal Care"},
	}
	for _, tt := range tests {
		if got := Categorize(tt.input); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizePrefersLongestKeyword(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"vanilla ice cream", "Frozen"},
		{"sour cream", "Dairy"},
		{"dish soap refill", "Household"},
		{"peanut butter", "Pantry"},
		{"pineapple chunks", "Produce"},
		{"brown rice", "Pantry"},
		{"eggplant", "Produce"},
		{"watermelon", "Produce"},
	}
	for _, tt := range tests {
		if got := Categorize(tt.input); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeCaseInsensitive(t *testing.T) {
	for _, in := range []string{"MILK", "Milk", "  milk  "} {
		if got := Categorize(in); got != "Dairy" {
			t.Errorf("Categorize(%q) = %q, want Dairy", in, got)
		}
	}
}

func TestCategorizeFallback(t *testing.T) {
	for _, in := range []string{"", "   ", "xyzzy"} {
		if got := Categorize(in); got != Uncategorized {
			t.Errorf("Categorize(%q) = %q, want %q", in, got, Uncategorized)
		}
	}
}
