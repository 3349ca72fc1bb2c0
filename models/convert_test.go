package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOnOffSwitch(t *testing.T) {
	for _, token := range []string{"on", "true", "1", "yes", "👍", "ON", "Yes"} {
		value, ok := ParseOnOffSwitch(token)
		assert.True(t, ok, "token %q should parse", token)
		assert.True(t, value, "token %q should mean on", token)
	}

	for _, token := range []string{"off", "false", "0", "no", "👎", "OFF", "No"} {
		value, ok := ParseOnOffSwitch(token)
		assert.True(t, ok, "token %q should parse", token)
		assert.False(t, value, "token %q should mean off", token)
	}

	for _, token := range []string{"", "maybe", "2", "enabled", "on "} {
		_, ok := ParseOnOffSwitch(token)
		assert.False(t, ok, "token %q should not parse", token)
	}
}

func TestFormatOnOff(t *testing.T) {
	assert.Equal(t, "<NOT SET>", FormatOnOff(nil))

	on := true
	assert.Equal(t, "ON", FormatOnOff(&on))

	off := false
	assert.Equal(t, "OFF", FormatOnOff(&off))
}

func TestSettingsPatch_Apply(t *testing.T) {
	prefix := "old"
	record := &GuildSettingsRecord{GuildID: 1, Prefix: &prefix}

	kind := NotifyKindRole
	patch := &SettingsPatch{
		Prefix:          Clear[string](),
		DailyNotifyID:   Set(int64(42)),
		DailyNotifyType: Set(kind),
	}
	assert.False(t, patch.IsEmpty())

	patch.Apply(record)
	assert.Nil(t, record.Prefix)
	assert.Equal(t, int64(42), *record.DailyNotifyID)
	assert.Equal(t, int16(2), *record.DailyNotifyType)
	// Unassigned columns stay untouched.
	assert.Nil(t, record.UsePagination)
}

func TestSettingsPatch_IsEmpty(t *testing.T) {
	assert.True(t, (&SettingsPatch{}).IsEmpty())
	assert.False(t, (&SettingsPatch{UsePagination: Set(true)}).IsEmpty())
}
