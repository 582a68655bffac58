package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/finsight/networth-go/internal/domain"
)

func TestParseMonth(t *testing.T) {
	m, err := domain.ParseMonth("2024-03")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.Year() != 2024 || m.String() != "2024-03" {
		t.Errorf("unexpected month: %s", m)
	}

	if _, err := domain.ParseMonth("March 2024"); err == nil {
		t.Error("expected error for bad format")
	}
	if _, err := domain.ParseMonth("2024-13"); err == nil {
		t.Error("expected error for month 13")
	}
}

func TestMonth_AddRollsOverYears(t *testing.T) {
	m := domain.MustMonth("2024-11")

	if got := m.Add(3); got != domain.MustMonth("2025-02") {
		t.Errorf("expected 2025-02, got %s", got)
	}
	if got := m.Add(-12); got != domain.MustMonth("2023-11") {
		t.Errorf("expected 2023-11, got %s", got)
	}
}

func TestMonth_Ordering(t *testing.T) {
	jan := domain.MustMonth("2024-01")
	dec := domain.MustMonth("2023-12")

	if !dec.Before(jan) || !jan.After(dec) {
		t.Error("2023-12 should sort before 2024-01")
	}
	if jan.Before(jan) || jan.After(jan) {
		t.Error("a month is neither before nor after itself")
	}
}

func TestMonth_JSONRoundTrip(t *testing.T) {
	m := domain.MustMonth("2024-03")

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-03"` {
		t.Errorf("expected quoted YYYY-MM, got %s", data)
	}

	var back domain.Month
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != m {
		t.Errorf("round trip changed the month: %s", back)
	}
}
