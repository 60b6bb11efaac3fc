package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPeriod(t *testing.T) {
	tests := []struct {
		hour int
		want Period
	}{
		{0, PeriodNight},
		{4, PeriodNight},
		{5, PeriodMorning},
		{11, PeriodMorning},
		{12, PeriodNoon},
		{13, PeriodNoon},
		{14, PeriodAfternoon},
		{17, PeriodAfternoon},
		{18, PeriodEvening},
		{22, PeriodEvening},
		{23, PeriodNight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPeriod(tt.hour), "hour %d", tt.hour)
	}
}
