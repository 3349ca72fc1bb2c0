package models

import (
	"time"
)

// Patch describes one column in a partial settings update: left alone, set to a
// value, or set to NULL. The zero value leaves the column alone.
type Patch[T any] struct {
	set   bool
	value *T
}

// Set returns a patch assigning the given value
func Set[T any](v T) Patch[T] {
	return Patch[T]{set: true, value: &v}
}

// Clear returns a patch assigning NULL
func Clear[T any]() Patch[T] {
	return Patch[T]{set: true}
}

// IsSet reports whether the patch assigns anything
func (p Patch[T]) IsSet() bool {
	return p.set
}

// Value returns the assigned value; nil means NULL. Only meaningful when IsSet.
func (p Patch[T]) Value() *T {
	return p.value
}

// SettingsPatch is a statically-typed partial update of one serversettings row.
// Each field maps to exactly one column, so a mistyped column cannot compile.
type SettingsPatch struct {
	Prefix                       Patch[string]
	UsePagination                Patch[bool]
	DailyCanPost                 Patch[bool]
	DailyChannelID               Patch[int64]
	DailyLatestMessageID         Patch[int64]
	DailyChangeMode              Patch[AutodailyChangeMode]
	DailyNotifyID                Patch[int64]
	DailyNotifyType              Patch[NotifyKind]
	DailyLatestMessageCreatedAt  Patch[time.Time]
	DailyLatestMessageModifiedAt Patch[time.Time]
	BotNewsChannelID             Patch[int64]
}

// IsEmpty reports whether the patch assigns no columns at all
func (p *SettingsPatch) IsEmpty() bool {
	return !p.Prefix.IsSet() &&
		!p.UsePagination.IsSet() &&
		!p.DailyCanPost.IsSet() &&
		!p.DailyChannelID.IsSet() &&
		!p.DailyLatestMessageID.IsSet() &&
		!p.DailyChangeMode.IsSet() &&
		!p.DailyNotifyID.IsSet() &&
		!p.DailyNotifyType.IsSet() &&
		!p.DailyLatestMessageCreatedAt.IsSet() &&
		!p.DailyLatestMessageModifiedAt.IsSet() &&
		!p.BotNewsChannelID.IsSet()
}

// Apply copies every assigned column onto the record, keeping an in-memory row
// consistent with what an executed update wrote.
func (p *SettingsPatch) Apply(r *GuildSettingsRecord) {
	if p.Prefix.IsSet() {
		r.Prefix = p.Prefix.Value()
	}
	if p.UsePagination.IsSet() {
		r.UsePagination = p.UsePagination.Value()
	}
	if p.DailyCanPost.IsSet() {
		r.DailyCanPost = p.DailyCanPost.Value()
	}
	if p.DailyChannelID.IsSet() {
		r.DailyChannelID = p.DailyChannelID.Value()
	}
	if p.DailyLatestMessageID.IsSet() {
		r.DailyLatestMessageID = p.DailyLatestMessageID.Value()
	}
	if p.DailyChangeMode.IsSet() {
		r.DailyChangeMode = p.DailyChangeMode.Value()
	}
	if p.DailyNotifyID.IsSet() {
		r.DailyNotifyID = p.DailyNotifyID.Value()
	}
	if p.DailyNotifyType.IsSet() {
		if kind := p.DailyNotifyType.Value(); kind != nil {
			v := int16(*kind)
			r.DailyNotifyType = &v
		} else {
			r.DailyNotifyType = nil
		}
	}
	if p.DailyLatestMessageCreatedAt.IsSet() {
		r.DailyLatestMessageCreatedAt = p.DailyLatestMessageCreatedAt.Value()
	}
	if p.DailyLatestMessageModifiedAt.IsSet() {
		r.DailyLatestMessageModifiedAt = p.DailyLatestMessageModifiedAt.Value()
	}
	if p.BotNewsChannelID.IsSet() {
		r.BotNewsChannelID = p.BotNewsChannelID.Value()
	}
}
