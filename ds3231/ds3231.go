// Package ds3231 implements a driver for the DS3231 Real-Time Clock (RTC),
// covering timekeeping, both alarms, the square-wave/interrupt pin, and the
// temperature sensor. The chip stores BCD calendar fields and does no
// calendar arithmetic of its own, so the package also carries a pure
// integer conversion engine between the broken-down DateTime form and a
// linear seconds count (see DateTime.Epoch and FromEpoch).
//
// The driver performs no locking. A multi-register sequence such as
// SetDateTime is not atomic on the bus; callers sharing one device across
// goroutines must serialize access themselves. The conversion functions
// are pure and safe to call from anywhere.
//
// Datasheet: https://datasheets.maximintegrated.com/en/ds/DS3231.pdf
package ds3231

import (
	"tinygo.org/x/drivers"
)

type Device struct {
	bus     drivers.I2C
	Address uint8
}

// New creates a new DS3231 driver on the specified preconfigured I2C bus.
// It only builds the Device; it does not touch the chip.
func New(i2c drivers.I2C) Device {
	return Device{
		bus:     i2c,
		Address: Address,
	}
}

// Configure puts the chip into a known state: both alarm interrupts
// disabled, both alarm flags cleared, and the 32 kHz output off. The
// interrupt pin is left in alarm mode.
func (d *Device) Configure() error {
	err := d.EnableAlarm1Interrupt(false)
	if err != nil {
		return err
	}
	err = d.EnableAlarm2Interrupt(false)
	if err != nil {
		return err
	}
	err = d.ClearAlarm1Flag()
	if err != nil {
		return err
	}
	err = d.ClearAlarm2Flag()
	if err != nil {
		return err
	}
	return d.Set32kHzOutput(false)
}

// SetDateTime validates dt and writes all seven timekeeping registers in a
// single bus transaction. The weekday register is recomputed from the date
// rather than taken from dt, the oscillator is started or stopped per
// dt.Oscillator, and the stop flag is cleared so LostPower reads false
// until power is actually lost.
func (d *Device) SetDateTime(dt DateTime) error {
	err := dt.Validate()
	if err != nil {
		return err
	}

	buf := []byte{
		decToBcd(dt.Second),
		decToBcd(dt.Minute),
		decToBcd(dt.Hour),
		decToBcd(DayOfWeek(dt.Year, dt.Month, dt.Day)),
		decToBcd(dt.Day),
		decToBcd(dt.Month),
		decToBcd(uint8(dt.Year - 2000)),
	}
	err = d.bus.WriteRegister(d.Address, TimeDate, buf)
	if err != nil {
		return err
	}

	err = d.writeBit(Status, osf, false)
	if err != nil {
		return err
	}
	return d.SetOscillator(dt.Oscillator)
}

// DateTime reads the current time from the chip. The masks strip the
// century bit and the unused high bits of each register.
func (d *Device) DateTime() (DateTime, error) {
	buf := [7]byte{}
	err := d.bus.ReadRegister(d.Address, TimeDate, buf[:])
	if err != nil {
		return DateTime{}, err
	}

	dt := DateTime{
		Second:  bcdToDec(buf[0] & 0x7F),
		Minute:  bcdToDec(buf[1] & 0x7F),
		Hour:    bcdToDec(buf[2] & 0x3F),
		Weekday: bcdToDec(buf[3] & 0x07),
		Day:     bcdToDec(buf[4] & 0x3F),
		Month:   bcdToDec(buf[5] & 0x1F),
		Year:    uint16(bcdToDec(buf[6])) + 2000,
	}
	dt.Oscillator, err = d.OscillatorEnabled()
	if err != nil {
		return DateTime{}, err
	}
	return dt, nil
}

// LostPower reports whether the oscillator stop flag is set, meaning the
// clock halted at some point and the time can no longer be trusted.
// SetDateTime clears the flag.
func (d *Device) LostPower() (bool, error) {
	return d.readBit(Status, osf)
}

// SetOscillator starts (true) or stops (false) the clock oscillator while
// on battery power.
func (d *Device) SetOscillator(enable bool) error {
	// EOSC is inverted: 0 keeps the clock running
	return d.writeBit(Control, eosc, !enable)
}

// OscillatorEnabled reports whether the oscillator is configured to run.
func (d *Device) OscillatorEnabled() (bool, error) {
	stopped, err := d.readBit(Control, eosc)
	return !stopped, err
}

// SetBatterySquareWave enables or disables the square-wave output while
// running from the backup battery (BBSQW).
func (d *Device) SetBatterySquareWave(enable bool) error {
	return d.writeBit(Control, bbsqw, enable)
}

// BatterySquareWave reports whether the battery-backed square wave is
// enabled.
func (d *Device) BatterySquareWave() (bool, error) {
	return d.readBit(Control, bbsqw)
}

// Set32kHzOutput enables or disables the dedicated 32 kHz output pin.
func (d *Device) Set32kHzOutput(enable bool) error {
	return d.writeBit(Status, en32khz, enable)
}

// Output32kHz reports whether the 32 kHz output pin is enabled.
func (d *Device) Output32kHz() (bool, error) {
	return d.readBit(Status, en32khz)
}

// InterruptMode selects what drives the INT#/SQW pin.
type InterruptMode uint8

const (
	SquareWaveInterrupt InterruptMode = iota
	AlarmInterrupt
)

// SetInterruptMode routes the INT#/SQW pin to either the square-wave
// output or the alarm interrupts.
func (d *Device) SetInterruptMode(mode InterruptMode) error {
	return d.writeBit(Control, intcn, mode == AlarmInterrupt)
}

// GetInterruptMode returns the current INT#/SQW pin routing.
func (d *Device) GetInterruptMode() (InterruptMode, error) {
	alarm, err := d.readBit(Control, intcn)
	if alarm {
		return AlarmInterrupt, err
	}
	return SquareWaveInterrupt, err
}

// Rate selects the square-wave output frequency.
type Rate uint8

const (
	Rate1Hz Rate = iota
	Rate1024Hz
	Rate4096Hz
	Rate8192Hz
)

// SetRate sets the square-wave output frequency (RS2/RS1). The interrupt
// pin is put back into alarm mode afterwards; call SetInterruptMode with
// SquareWaveInterrupt to actually route the wave to the pin.
func (d *Device) SetRate(rate Rate) error {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Control, buf[:])
	if err != nil {
		return err
	}
	buf[0] = (buf[0] & 0xE7) | (uint8(rate&0x03) << rs1)
	err = d.bus.WriteRegister(d.Address, Control, buf[:])
	if err != nil {
		return err
	}
	return d.SetInterruptMode(AlarmInterrupt)
}

// GetRate returns the configured square-wave frequency.
func (d *Device) GetRate() (Rate, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Control, buf[:])
	return Rate(buf[0]>>rs1) & 0x03, err
}

// Temperature returns the die temperature in millidegrees Celsius. The
// sensor resolves 0.25°C steps, carried in the top two bits of the LSB
// register.
func (d *Device) Temperature() (int32, error) {
	buf := [2]byte{}
	err := d.bus.ReadRegister(d.Address, TempMSB, buf[:])
	if err != nil {
		return 0, err
	}
	return int32(int8(buf[0]))*1000 + int32(buf[1]>>6)*250, nil
}

// readBit reads a single bit of the given register.
func (d *Device) readBit(reg, bit uint8) (bool, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, reg, buf[:])
	return buf[0]&(1<<bit) != 0, err
}

// writeBit sets or clears a single bit of the given register, leaving the
// rest untouched.
func (d *Device) writeBit(reg, bit uint8, set bool) error {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, reg, buf[:])
	if err != nil {
		return err
	}
	if set {
		buf[0] |= 1 << bit
	} else {
		buf[0] &^= 1 << bit
	}
	return d.bus.WriteRegister(d.Address, reg, buf[:])
}

// decToBcd converts int to BCD
func decToBcd(dec uint8) uint8 {
	return dec + 6*(dec/10)
}

// bcdToDec converts BCD to int
func bcdToDec(bcd uint8) uint8 {
	return bcd - 6*(bcd>>4)
}
