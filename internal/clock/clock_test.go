package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	f := NewFake(start)

	assert.Equal(t, int64(1_700_000_000), Unix(f))

	f.Advance(time.Hour)
	assert.Equal(t, int64(1_700_003_600), Unix(f))

	f.Set(start.Add(-time.Minute))
	assert.Equal(t, int64(1_699_999_940), Unix(f))
}

func TestReal(t *testing.T) {
	before := time.Now().Unix()
	got := Unix(Real())
	after := time.Now().Unix()

	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}
