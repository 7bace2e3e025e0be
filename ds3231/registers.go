package ds3231

const (
	Address = 0x68 // I2C address for the DS3231

	TimeDate     = 0x00 // Timekeeping registers starting with seconds, all BCD
	Alarm1Second = 0x07 // Alarm 1 registers starting with seconds
	Alarm2Minute = 0x0B // Alarm 2 registers starting with minutes (alarm 2 has no seconds)
	Control      = 0x0E // Control register
	Status       = 0x0F // Status register
	AgingOffset  = 0x10 // Crystal aging trim, signed
	TempMSB      = 0x11 // Temperature, integer part, signed
	TempLSB      = 0x12 // Temperature, fractional part in the top two bits
)

// Control register bit positions.
const (
	a1ie  = 0 // alarm 1 interrupt enable
	a2ie  = 1 // alarm 2 interrupt enable
	intcn = 2 // interrupt pin function: 0 square wave, 1 alarm
	rs1   = 3 // square wave rate select, low bit
	rs2   = 4 // square wave rate select, high bit
	conv  = 5 // force temperature conversion
	bbsqw = 6 // battery-backed square wave enable
	eosc  = 7 // oscillator disable; the clock runs while this is 0
)

// Status register bit positions.
const (
	a1f     = 0 // alarm 1 triggered
	a2f     = 1 // alarm 2 triggered
	bsy     = 2 // TCXO conversion busy
	en32khz = 3 // 32 kHz output enable
	osf     = 7 // oscillator stop flag, latches when the clock halts
)
