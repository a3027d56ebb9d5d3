package block

import "testing"

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    Day
		wantErr bool
	}{
		{"Monday", Monday, false},
		{"mon", Monday, false},
		{"T", Tuesday, false},
		{"R", Thursday, false},
		{"thu", Thursday, false},
		{" FRI ", Friday, false},
		{"u", Sunday, false},
		{"someday", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDayString(t *testing.T) {
	if Wednesday.String() != "Wednesday" || Wednesday.Short() != "Wed" {
		t.Errorf("unexpected names: %s %s", Wednesday, Wednesday.Short())
	}
	if Day(9).Valid() {
		t.Error("Day(9) should be invalid")
	}
	if Day(9).String() != "Day(9)" {
		t.Errorf("Day(9).String() = %q", Day(9).String())
	}
}

func TestWeek(t *testing.T) {
	w := Week{}
	w.Add(Friday, New("f", 540, 600))
	w.Add(Monday, New("m1", 540, 600))
	w.Add(Monday, New("m2", 560, 620))

	days := w.Days()
	if len(days) != 2 || days[0] != Monday || days[1] != Friday {
		t.Errorf("Days() = %v", days)
	}
	if w.Len() != 3 {
		t.Errorf("Len() = %d, want 3", w.Len())
	}
	if err := w.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	c := w.Clone()
	c[Monday][0].Depth = 5
	if w[Monday][0].Depth != 0 {
		t.Error("Clone should not share blocks")
	}

	w.Add(Tuesday, New("bad", 700, 600))
	if err := w.Validate(); err == nil {
		t.Error("Validate() should reject the malformed Tuesday block")
	}
}
