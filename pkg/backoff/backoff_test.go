package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var backOffTests = []struct {
	b    *BackOff
	want []time.Duration
}{
	{&BackOff{Factor: 2, Duration: time.Second}, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}},
	{&BackOff{Factor: 4, Duration: time.Second, MaxDuration: time.Second * 20}, []time.Duration{1 * time.Second, 4 * time.Second, 16 * time.Second, 20 * time.Second, 20 * time.Second}},
	{&BackOff{Duration: 5 * time.Second}, []time.Duration{5 * time.Second, 5 * time.Second}},
	{New(time.Second, 3*time.Second), []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}},
}

func TestNextDuration(t *testing.T) {
	for _, tt := range backOffTests {
		for _, dur := range tt.want {
			assert.Equal(t, dur, tt.b.NextDuration())
		}
		assert.Equal(t, len(tt.want), tt.b.Attempts())
	}
}

func TestJitter(t *testing.T) {
	b := &BackOff{Factor: 2, Duration: time.Second, JitterFactor: 2}
	for _, dur := range []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second} {
		got := b.NextDuration()
		assert.True(t, got >= dur)
		assert.True(t, float64(got) <= float64(dur)*(1+b.JitterFactor))
	}
}

func TestReset(t *testing.T) {
	b := New(time.Second, time.Minute)
	b.NextDuration()
	b.NextDuration()
	assert.Equal(t, 2, b.Attempts())

	b.Reset()
	assert.Equal(t, 0, b.Attempts())
	assert.Equal(t, time.Second, b.NextDuration())
}
