package tidy

import (
	"fmt"
	"strings"
	"testing"
)

// sampleLog builds n diagnostic lines with plenty of duplicates and noise.
func sampleLog(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[%d/%d] Building CXX object\n", i, n)
		fmt.Fprintf(&b, "/w/repo/src/f%d.cc:%d:%d: warning: message %d [check-%d]\n", i%17, i%101+1, i%7+1, i%13, i%5)
		if i%3 == 0 {
			b.WriteString("note: warning: prose only\n")
		}
	}
	return b.String()
}

func TestExtract_ParallelMatchesSequential(t *testing.T) {
	log := sampleLog(20000)

	seq, seqStats, err := NewExtractor(Options{RepoName: "repo"}).Extract(strings.NewReader(log))
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, parStats, err := NewExtractor(Options{RepoName: "repo", Jobs: 4}).Extract(strings.NewReader(log))
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if seq.Len() != par.Len() {
		t.Fatalf("set sizes differ: sequential %d, parallel %d", seq.Len(), par.Len())
	}
	for _, w := range seq.Sorted() {
		if !par.Contains(w) {
			t.Fatalf("parallel set missing %+v", w)
		}
	}
	if seqStats != parStats {
		t.Errorf("stats differ: sequential %+v, parallel %+v", seqStats, parStats)
	}
}

func TestSplitChunks(t *testing.T) {
	lines := make([]string, 10)
	tests := []struct {
		n, minSize int
		want       []int
	}{
		{1, 1, []int{10}},
		{3, 1, []int{4, 4, 2}},
		{4, 5, []int{5, 5}},
		{20, 1, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{0, 1, []int{10}},
	}
	for _, tt := range tests {
		chunks := splitChunks(lines, tt.n, tt.minSize)
		if len(chunks) != len(tt.want) {
			t.Errorf("splitChunks(n=%d, min=%d) gave %d chunks, want %d", tt.n, tt.minSize, len(chunks), len(tt.want))
			continue
		}
		for i, c := range chunks {
			if len(c) != tt.want[i] {
				t.Errorf("splitChunks(n=%d, min=%d) chunk %d len = %d, want %d", tt.n, tt.minSize, i, len(c), tt.want[i])
			}
		}
	}
	if splitChunks(nil, 4, 1) != nil {
		t.Error("splitChunks(nil) should be nil")
	}
}
