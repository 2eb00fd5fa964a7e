package keyword

import (
	"testing"
)

func TestCounters(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     []int
	}{
		{
			name:     "case insensitive",
			text:     "Python and PYTHON and python3",
			keywords: []string{"Python"},
			want:     []int{3},
		},
		{
			name:     "substring matches count",
			text:     "JavaScript developer who knows Java",
			keywords: []string{"java", "javascript"},
			want:     []int{2, 1},
		},
		{
			name:     "non overlapping per keyword",
			text:     "aaaa",
			keywords: []string{"aa"},
			want:     []int{2},
		},
		{
			name:     "duplicates counted for each entry",
			text:     "Docker docker",
			keywords: []string{"Docker", "docker"},
			want:     []int{2, 2},
		},
		{
			name:     "multi word keyword",
			text:     "machine learning and more machine learning",
			keywords: []string{"Machine Learning", "learning"},
			want:     []int{2, 2},
		},
		{
			name:     "empty keyword and no text",
			text:     "",
			keywords: []string{"", "go"},
			want:     []int{0, 0},
		},
	}

	counters := map[string]Counter{"scanner": Scanner{}, "naive": Naive{}}
	for cname, c := range counters {
		for _, tt := range tests {
			t.Run(cname+"/"+tt.name, func(t *testing.T) {
				got := c.Count(tt.text, tt.keywords)
				if len(got) != len(tt.want) {
					t.Fatalf("Count() returned %d counts, want %d", len(got), len(tt.want))
				}
				for i := range got {
					if got[i] != tt.want[i] {
						t.Errorf("Count()[%d] (%q) = %d, want %d", i, tt.keywords[i], got[i], tt.want[i])
					}
				}
			})
		}
	}
}

func TestTotal(t *testing.T) {
	text := "Go, Kubernetes and more Go"
	keywords := []string{"go", "kubernetes", "rust"}
	if got := Total(Scanner{}, text, keywords); got != 3 {
		t.Errorf("Total(Scanner) = %d, want 3", got)
	}
	if got := Total(Naive{}, text, keywords); got != 3 {
		t.Errorf("Total(Naive) = %d, want 3", got)
	}
}
