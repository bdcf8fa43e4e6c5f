package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, 10, 4)

	if p.Fraction() != 0 {
		t.Errorf("fraction: want(0) have(%v)", p.Fraction())
	}

	for i := 0; i < 6; i++ {
		p.Increment()
	}
	if p.Fraction() != 1 {
		t.Errorf("fraction should saturate at 1, have %v", p.Fraction())
	}

	p.Finish()
	out := buf.String()
	if !strings.Contains(out, "100.00%") {
		t.Errorf("output missing percentage: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("finish should end the line: %q", out)
	}
}

func TestProgressBarHalf(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, 8, 2)
	p.Increment()
	p.Display()

	if n := strings.Count(buf.String(), "█"); n != 4 {
		t.Errorf("filled cells: want(4) have(%v)", n)
	}
	if !strings.Contains(buf.String(), "50.00%") {
		t.Errorf("output missing percentage: %q", buf.String())
	}
}

func TestNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero max progress")
		}
	}()
	New(&bytes.Buffer{}, 10, 0)
}
