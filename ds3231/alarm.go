package ds3231

// Alarm1Mode selects which fields alarm 1 matches against. The values are
// the chip's mask-bit encodings (A1M1..A1M4 and DY/DT).
type Alarm1Mode uint8

const (
	Alarm1EverySecond  Alarm1Mode = 0x0F
	Alarm1MatchSeconds Alarm1Mode = 0x0E
	Alarm1MatchMinutes Alarm1Mode = 0x0C // minutes and seconds
	Alarm1MatchHours   Alarm1Mode = 0x08 // hours, minutes and seconds
	Alarm1MatchDate    Alarm1Mode = 0x00 // day of month plus time
	Alarm1MatchDay     Alarm1Mode = 0x10 // weekday plus time
)

// Alarm2Mode selects which fields alarm 2 matches against. Alarm 2 has no
// seconds register and fires at most once per minute.
type Alarm2Mode uint8

const (
	Alarm2EveryMinute  Alarm2Mode = 0x07
	Alarm2MatchMinutes Alarm2Mode = 0x06
	Alarm2MatchHours   Alarm2Mode = 0x04 // hours and minutes
	Alarm2MatchDate    Alarm2Mode = 0x00 // day of month plus time
	Alarm2MatchDay     Alarm2Mode = 0x08 // weekday plus time
)

// Alarm1 is the full configuration of the first alarm. DayDate holds a day
// of the month, or a weekday (1=Monday) when Mode is Alarm1MatchDay; it is
// ignored in the other modes.
type Alarm1 struct {
	Second  uint8
	Minute  uint8
	Hour    uint8
	DayDate uint8
	Mode    Alarm1Mode

	// Interrupt asserts the INT#/SQW pin when the alarm fires. Setting the
	// alarm applies it and switches the pin to alarm mode.
	Interrupt bool
}

// Alarm2 is the full configuration of the second alarm. See Alarm1 for the
// DayDate and Interrupt semantics.
type Alarm2 struct {
	Minute  uint8
	Hour    uint8
	DayDate uint8
	Mode    Alarm2Mode

	Interrupt bool
}

// SetAlarm1 writes the four alarm 1 registers and applies the interrupt
// enable from a.Interrupt.
func (d *Device) SetAlarm1(a Alarm1) error {
	m := uint8(a.Mode)
	buf := []byte{
		decToBcd(a.Second) | (m&0x01)<<7,                // A1M1
		decToBcd(a.Minute) | (m&0x02)<<6,                // A1M2
		decToBcd(a.Hour) | (m&0x04)<<5,                  // A1M3
		decToBcd(a.DayDate) | (m&0x08)<<4 | (m&0x10)<<2, // A1M4, DY/DT
	}
	err := d.bus.WriteRegister(d.Address, Alarm1Second, buf)
	if err != nil {
		return err
	}
	return d.EnableAlarm1Interrupt(a.Interrupt)
}

// GetAlarm1 reads back the full alarm 1 configuration, including the mode
// recovered from the mask bits.
func (d *Device) GetAlarm1() (Alarm1, error) {
	buf := [4]byte{}
	err := d.bus.ReadRegister(d.Address, Alarm1Second, buf[:])
	if err != nil {
		return Alarm1{}, err
	}

	a := Alarm1{
		Second: bcdToDec(buf[0] & 0x7F),
		Minute: bcdToDec(buf[1] & 0x7F),
		Hour:   bcdToDec(buf[2] & 0x3F),
		Mode: Alarm1Mode(buf[0]>>7 |
			(buf[1]&0x80)>>6 |
			(buf[2]&0x80)>>5 |
			(buf[3]&0x80)>>4 |
			(buf[3]&0x40)>>2),
	}
	if buf[3]&0x40 != 0 {
		// weekday match, only four significant bits
		a.DayDate = bcdToDec(buf[3] & 0x0F)
	} else {
		a.DayDate = bcdToDec(buf[3] & 0x3F)
	}
	a.Interrupt, err = d.Alarm1InterruptEnabled()
	if err != nil {
		return Alarm1{}, err
	}
	return a, nil
}

// SetAlarm2 writes the three alarm 2 registers and applies the interrupt
// enable from a.Interrupt.
func (d *Device) SetAlarm2(a Alarm2) error {
	m := uint8(a.Mode)
	buf := []byte{
		decToBcd(a.Minute) | (m&0x01)<<7,                // A2M2
		decToBcd(a.Hour) | (m&0x02)<<6,                  // A2M3
		decToBcd(a.DayDate) | (m&0x04)<<5 | (m&0x08)<<3, // A2M4, DY/DT
	}
	err := d.bus.WriteRegister(d.Address, Alarm2Minute, buf)
	if err != nil {
		return err
	}
	return d.EnableAlarm2Interrupt(a.Interrupt)
}

// GetAlarm2 reads back the full alarm 2 configuration.
func (d *Device) GetAlarm2() (Alarm2, error) {
	buf := [3]byte{}
	err := d.bus.ReadRegister(d.Address, Alarm2Minute, buf[:])
	if err != nil {
		return Alarm2{}, err
	}

	a := Alarm2{
		Minute: bcdToDec(buf[0] & 0x7F),
		Hour:   bcdToDec(buf[1] & 0x3F),
		Mode: Alarm2Mode(buf[0]>>7 |
			(buf[1]&0x80)>>6 |
			(buf[2]&0x80)>>5 |
			(buf[2]&0x40)>>3),
	}
	if buf[2]&0x40 != 0 {
		a.DayDate = bcdToDec(buf[2] & 0x0F)
	} else {
		a.DayDate = bcdToDec(buf[2] & 0x3F)
	}
	a.Interrupt, err = d.Alarm2InterruptEnabled()
	if err != nil {
		return Alarm2{}, err
	}
	return a, nil
}

// EnableAlarm1Interrupt sets or clears A1IE. Either way the interrupt pin
// is switched to alarm mode.
func (d *Device) EnableAlarm1Interrupt(enable bool) error {
	err := d.writeBit(Control, a1ie, enable)
	if err != nil {
		return err
	}
	return d.SetInterruptMode(AlarmInterrupt)
}

// Alarm1InterruptEnabled reports whether A1IE is set.
func (d *Device) Alarm1InterruptEnabled() (bool, error) {
	return d.readBit(Control, a1ie)
}

// Alarm1Triggered reports whether alarm 1 has fired. The flag, and the
// interrupt pin when routed to alarms, stays asserted until
// ClearAlarm1Flag is called.
func (d *Device) Alarm1Triggered() (bool, error) {
	return d.readBit(Status, a1f)
}

// ClearAlarm1Flag acknowledges alarm 1 so it can fire again.
func (d *Device) ClearAlarm1Flag() error {
	return d.writeBit(Status, a1f, false)
}

// EnableAlarm2Interrupt sets or clears A2IE. Either way the interrupt pin
// is switched to alarm mode.
func (d *Device) EnableAlarm2Interrupt(enable bool) error {
	err := d.writeBit(Control, a2ie, enable)
	if err != nil {
		return err
	}
	return d.SetInterruptMode(AlarmInterrupt)
}

// Alarm2InterruptEnabled reports whether A2IE is set.
func (d *Device) Alarm2InterruptEnabled() (bool, error) {
	return d.readBit(Control, a2ie)
}

// Alarm2Triggered reports whether alarm 2 has fired. The flag stays
// asserted until ClearAlarm2Flag is called.
func (d *Device) Alarm2Triggered() (bool, error) {
	return d.readBit(Status, a2f)
}

// ClearAlarm2Flag acknowledges alarm 2 so it can fire again.
func (d *Device) ClearAlarm2Flag() error {
	return d.writeBit(Status, a2f, false)
}
