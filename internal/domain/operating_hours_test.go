package domain

import (
	"testing"
	"time"
)

func TestOpenRangeMinutes(t *testing.T) {
	openMin, closeMin, err := OpenRange{Open: "08:30", Close: "17:00"}.Minutes()
	if err != nil {
		t.Fatalf("Minutes: %v", err)
	}
	if openMin != 510 || closeMin != 1020 {
		t.Fatalf("Minutes = %d, %d, want 510, 1020", openMin, closeMin)
	}
}

func TestOpenRangeMinutesRejectsBadInput(t *testing.T) {
	cases := []OpenRange{
		{Open: "8:00am", Close: "17:00"},
		{Open: "08:00", Close: "25:00"},
		{Open: "17:00", Close: "08:00"},
		{Open: "09:00", Close: "09:00"},
	}

	for _, r := range cases {
		if _, _, err := r.Minutes(); err == nil {
			t.Errorf("range %+v accepted, want error", r)
		}
	}
}

func TestParseOperatingHours(t *testing.T) {
	hours, err := ParseOperatingHours(map[string][]OpenRange{
		"Monday":   {{Open: "08:00", Close: "17:00"}},
		"saturday": {{Open: "09:00", Close: "13:00"}},
	})
	if err != nil {
		t.Fatalf("ParseOperatingHours: %v", err)
	}

	if len(hours[time.Monday]) != 1 {
		t.Errorf("monday missing despite mixed-case key")
	}
	if len(hours[time.Saturday]) != 1 {
		t.Errorf("saturday missing")
	}
	if len(hours[time.Sunday]) != 0 {
		t.Errorf("sunday should be absent")
	}
}

func TestParseOperatingHoursUnknownDay(t *testing.T) {
	_, err := ParseOperatingHours(map[string][]OpenRange{
		"funday": {{Open: "08:00", Close: "17:00"}},
	})
	if err == nil {
		t.Fatal("unknown day name accepted")
	}
}
