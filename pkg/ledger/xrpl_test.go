package ledger

import (
	"testing"
	"time"
)

func TestCloseTimeFromRippleSeconds(t *testing.T) {
	if got := closeTimeFromRippleSeconds(0); !got.Equal(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("closeTimeFromRippleSeconds(0) = %v, want the XRPL epoch", got)
	}

	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := closeTimeFromRippleSeconds(825681600); !got.Equal(want) {
		t.Errorf("closeTimeFromRippleSeconds(825681600) = %v, want %v", got, want)
	}
}
