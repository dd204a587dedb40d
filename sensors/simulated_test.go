package sensors

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated(t *testing.T) {
	fc := clockwork.NewFakeClock()
	s := NewSimulated(fc)

	r, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, Reading{Time: fc.Now(), TempIn: 10, TempOut: -30, Humidity: 0, Pressure: 960}, r)

	fc.Advance(SimulatedPeriod / 2)
	r, err = s.Read()
	require.NoError(t, err)
	assert.Equal(t, 40.0, r.TempIn)
	assert.Equal(t, 60.0, r.TempOut)
	assert.Equal(t, 100.0, r.Humidity)
	assert.Equal(t, 1050.0, r.Pressure)

	for i := 0; i < 20; i++ {
		fc.Advance(time.Minute)
		r, _ = s.Read()
		assert.GreaterOrEqual(t, r.TempOut, -30.0)
		assert.LessOrEqual(t, r.TempOut, 60.0)
	}
}
