package scoring

import "testing"

func TestPoints(t *testing.T) {
	cases := []struct {
		name string
		line StatLine
		want float64
	}{
		{
			name: "quarterback line",
			line: StatLine{PassYds: 300, PassTD: 3, PassInt: 1},
			want: 22.0,
		},
		{
			name: "receiver line counts receptions",
			line: StatLine{RecYds: 80, RecTD: 1, Rec: 6},
			want: 20.0,
		},
		{
			name: "running back with fumble",
			line: StatLine{RushYds: 95, RushTD: 1, Rec: 3, RecYds: 18, Fumbles: 1},
			want: 18.3,
		},
		{
			name: "empty line",
			line: StatLine{},
			want: 0,
		},
		{
			name: "negative total stays negative",
			line: StatLine{PassInt: 2, Fumbles: 1},
			want: -6.0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Points(tc.line); got != tc.want {
				t.Fatalf("Points(%+v) = %v, want %v", tc.line, got, tc.want)
			}
		})
	}
}

func TestStatLineEmpty(t *testing.T) {
	if !(StatLine{}).Empty() {
		t.Fatal("zero line should be empty")
	}
	if (StatLine{Rec: 1}).Empty() {
		t.Fatal("line with a reception should not be empty")
	}
}
