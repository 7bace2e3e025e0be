package ds3231

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

// testBus is an in-memory register file standing in for the I2C bus.
type testBus struct {
	regs   [0x13]byte
	writes int
	err    error
}

func (b *testBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	if b.err != nil {
		return b.err
	}
	copy(buf, b.regs[reg:])
	return nil
}

func (b *testBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	if b.err != nil {
		return b.err
	}
	copy(b.regs[reg:], buf)
	b.writes++
	return nil
}

func (b *testBus) Tx(addr uint16, w, r []byte) error {
	return b.err
}

func TestSetDateTime(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)
	// start from a halted clock with a stale stop flag
	bus.regs[Control] = 1 << eosc
	bus.regs[Status] = 1 << osf

	err := d.SetDateTime(DateTime{
		Year: 2024, Month: 12, Day: 25,
		Hour: 12, Minute: 34, Second: 56,
		Oscillator: true,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(bus.regs[TimeDate:TimeDate+7], qt.DeepEquals,
		[]byte{0x56, 0x34, 0x12, 0x03, 0x25, 0x12, 0x24})
	// weekday register came from the date, 2024-12-25 is a Wednesday
	c.Assert(bus.regs[TimeDate+3], qt.Equals, byte(Wednesday))
	c.Assert(bus.regs[Status]&(1<<osf), qt.Equals, byte(0))
	c.Assert(bus.regs[Control]&(1<<eosc), qt.Equals, byte(0))
}

func TestSetDateTimeStopsOscillator(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)
	err := d.SetDateTime(DateTime{Year: 2024, Month: 1, Day: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(bus.regs[Control]&(1<<eosc), qt.Equals, byte(1<<eosc))
}

func TestSetDateTimeRejectsInvalid(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)
	err := d.SetDateTime(DateTime{Year: 2023, Month: 2, Day: 29})
	c.Assert(err, qt.Equals, ErrOutOfRange)
	// nothing reached the bus
	c.Assert(bus.writes, qt.Equals, 0)
}

func TestDateTime(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)
	copy(bus.regs[TimeDate:], []byte{0x30, 0x21, 0x07, 0x02, 0x01, 0x04, 0x25})

	dt, err := d.DateTime()
	c.Assert(err, qt.IsNil)
	c.Assert(dt, qt.DeepEquals, DateTime{
		Year: 2025, Month: 4, Day: 1,
		Hour: 7, Minute: 21, Second: 30,
		Weekday:    Tuesday,
		Oscillator: true,
	})
}

func TestDateTimeMasksCenturyBit(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)
	copy(bus.regs[TimeDate:], []byte{0x00, 0x00, 0x00, 0x01, 0x01, 0x81, 0x00})

	dt, err := d.DateTime()
	c.Assert(err, qt.IsNil)
	c.Assert(dt.Month, qt.Equals, uint8(1))
}

func TestLostPower(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)

	lost, err := d.LostPower()
	c.Assert(err, qt.IsNil)
	c.Assert(lost, qt.Equals, false)

	bus.regs[Status] |= 1 << osf
	lost, err = d.LostPower()
	c.Assert(err, qt.IsNil)
	c.Assert(lost, qt.Equals, true)

	// setting the clock clears the flag
	err = d.SetDateTime(DateTime{Year: 2024, Month: 1, Day: 1, Oscillator: true})
	c.Assert(err, qt.IsNil)
	lost, err = d.LostPower()
	c.Assert(err, qt.IsNil)
	c.Assert(lost, qt.Equals, false)
}

func TestConfigure(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)
	bus.regs[Control] = 1<<a1ie | 1<<a2ie
	bus.regs[Status] = 1<<a1f | 1<<a2f | 1<<en32khz

	err := d.Configure()
	c.Assert(err, qt.IsNil)
	c.Assert(bus.regs[Control]&(1<<a1ie), qt.Equals, byte(0))
	c.Assert(bus.regs[Control]&(1<<a2ie), qt.Equals, byte(0))
	c.Assert(bus.regs[Control]&(1<<intcn), qt.Equals, byte(1<<intcn))
	c.Assert(bus.regs[Status]&(1<<a1f), qt.Equals, byte(0))
	c.Assert(bus.regs[Status]&(1<<a2f), qt.Equals, byte(0))
	c.Assert(bus.regs[Status]&(1<<en32khz), qt.Equals, byte(0))
}

func TestInterruptMode(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)

	c.Assert(d.SetInterruptMode(AlarmInterrupt), qt.IsNil)
	mode, err := d.GetInterruptMode()
	c.Assert(err, qt.IsNil)
	c.Assert(mode, qt.Equals, AlarmInterrupt)

	c.Assert(d.SetInterruptMode(SquareWaveInterrupt), qt.IsNil)
	mode, err = d.GetInterruptMode()
	c.Assert(err, qt.IsNil)
	c.Assert(mode, qt.Equals, SquareWaveInterrupt)
}

func TestRate(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)
	bus.regs[Control] = 1 << bbsqw // must survive the rate update

	c.Assert(d.SetRate(Rate8192Hz), qt.IsNil)
	rate, err := d.GetRate()
	c.Assert(err, qt.IsNil)
	c.Assert(rate, qt.Equals, Rate8192Hz)
	c.Assert(bus.regs[Control]&(1<<bbsqw), qt.Equals, byte(1<<bbsqw))
	// the chip is put back into alarm interrupt mode
	c.Assert(bus.regs[Control]&(1<<intcn), qt.Equals, byte(1<<intcn))

	c.Assert(d.SetRate(Rate1Hz), qt.IsNil)
	rate, err = d.GetRate()
	c.Assert(err, qt.IsNil)
	c.Assert(rate, qt.Equals, Rate1Hz)
}

func TestOscillatorAndOutputs(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)

	c.Assert(d.SetOscillator(false), qt.IsNil)
	on, err := d.OscillatorEnabled()
	c.Assert(err, qt.IsNil)
	c.Assert(on, qt.Equals, false)

	c.Assert(d.SetOscillator(true), qt.IsNil)
	on, err = d.OscillatorEnabled()
	c.Assert(err, qt.IsNil)
	c.Assert(on, qt.Equals, true)

	c.Assert(d.SetBatterySquareWave(true), qt.IsNil)
	on, err = d.BatterySquareWave()
	c.Assert(err, qt.IsNil)
	c.Assert(on, qt.Equals, true)

	c.Assert(d.Set32kHzOutput(true), qt.IsNil)
	on, err = d.Output32kHz()
	c.Assert(err, qt.IsNil)
	c.Assert(on, qt.Equals, true)
	c.Assert(d.Set32kHzOutput(false), qt.IsNil)
	on, err = d.Output32kHz()
	c.Assert(err, qt.IsNil)
	c.Assert(on, qt.Equals, false)
}

func TestTemperature(t *testing.T) {
	c := qt.New(t)

	bus := &testBus{}
	d := New(bus)

	bus.regs[TempMSB] = 0x19 // 25°C
	bus.regs[TempLSB] = 0x40 // +0.25°C
	mc, err := d.Temperature()
	c.Assert(err, qt.IsNil)
	c.Assert(mc, qt.Equals, int32(25250))

	bus.regs[TempMSB] = 0xFF // -1°C
	bus.regs[TempLSB] = 0xC0 // +0.75°C
	mc, err = d.Temperature()
	c.Assert(err, qt.IsNil)
	c.Assert(mc, qt.Equals, int32(-250))
}

func TestBusErrorPropagates(t *testing.T) {
	c := qt.New(t)

	busErr := errors.New("nack")
	bus := &testBus{err: busErr}
	d := New(bus)

	_, err := d.DateTime()
	c.Assert(err, qt.Equals, busErr)
	err = d.SetDateTime(DateTime{Year: 2024, Month: 1, Day: 1})
	c.Assert(err, qt.Equals, busErr)
	_, err = d.Temperature()
	c.Assert(err, qt.Equals, busErr)
}
