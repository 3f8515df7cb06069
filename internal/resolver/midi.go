package resolver

import (
	"strconv"
	"strings"

	"github.com/jaki95/setlist-sync/internal/domain"
)

// ParseMIDICommand reads a legacy command string: "<channel>-<program>" or a
// bare "<program>" on channel 0. Anything else, including out-of-range
// numbers, carries no MIDI data. Bank select is always the legacy 0/3 pair.
func ParseMIDICommand(command string) (domain.MIDIProfile, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return domain.MIDIProfile{}, false
	}

	channel := 0
	programPart := command
	if channelPart, rest, found := strings.Cut(command, "-"); found {
		c, err := strconv.Atoi(strings.TrimSpace(channelPart))
		if err != nil || !domain.ValidChannel(c) {
			return domain.MIDIProfile{}, false
		}
		channel = c
		programPart = rest
	}

	program, err := strconv.Atoi(strings.TrimSpace(programPart))
	if err != nil || !domain.ValidDataByte(program) {
		return domain.MIDIProfile{}, false
	}

	return domain.MIDIProfile{
		InstrumentType: domain.InstrumentKeyboard,
		Channel:        channel,
		ProgramNumber:  domain.IntPtr(program),
		BankMSB:        domain.IntPtr(domain.LegacyBankMSB),
		BankLSB:        domain.IntPtr(domain.LegacyBankLSB),
	}, true
}
