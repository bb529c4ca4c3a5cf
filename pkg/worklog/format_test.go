package worklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name  string
		secs  int
		clock bool
		want  string
	}{
		{name: "whole hours", secs: 7200, want: "2h"},
		{name: "half hour", secs: 5400, want: "1.5h"},
		{name: "rounded to two decimals", secs: 1000, want: "0.28h"},
		{name: "zero", secs: 0, want: "0h"},
		{name: "clock", secs: 9000, clock: true, want: "2:30"},
		{name: "clock minutes only", secs: 300, clock: true, want: "0:05"},
		{name: "clock over a day", secs: 90000, clock: true, want: "25:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSeconds(tt.secs, tt.clock))
		})
	}
}
