package app

import (
	"testing"
	"time"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	if s := m.Snapshot(); s.Redraws != 0 || s.AvgRedraw != 0 || s.BytesPerRedraw() != 0 {
		t.Errorf("expected zero snapshot, got %+v", s)
	}

	m.RecordRedraw(2*time.Millisecond, 100)
	m.RecordRedraw(4*time.Millisecond, 300)
	m.RecordKey()

	s := m.Snapshot()
	if s.Redraws != 2 || s.Keys != 1 {
		t.Errorf("expected 2 redraws and 1 key, got %+v", s)
	}
	if s.AvgRedraw != 3*time.Millisecond {
		t.Errorf("expected 3ms average, got %v", s.AvgRedraw)
	}
	if s.MaxRedraw != 4*time.Millisecond {
		t.Errorf("expected 4ms max, got %v", s.MaxRedraw)
	}
	if s.BytesPerRedraw() != 150 {
		t.Errorf("expected 150 bytes per redraw, got %v", s.BytesPerRedraw())
	}
}
