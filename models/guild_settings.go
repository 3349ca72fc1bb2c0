package models

import (
	"strconv"
	"time"
)

// AutodailyChangeMode represents the policy for superseding a previous daily post
type AutodailyChangeMode int16

const (
	ChangeModePostNew          AutodailyChangeMode = 1
	ChangeModeDeleteAndPostNew AutodailyChangeMode = 2
	ChangeModeEdit             AutodailyChangeMode = 3
)

// DefaultAutodailyChangeMode is stored when a guild row is first created
const DefaultAutodailyChangeMode = ChangeModePostNew

// Next returns the mode the toggle operation cycles to
func (m AutodailyChangeMode) Next() AutodailyChangeMode {
	return AutodailyChangeMode((int16(m) % 3) + 1)
}

// Valid reports whether the mode is one of the three known values
func (m AutodailyChangeMode) Valid() bool {
	return m >= ChangeModePostNew && m <= ChangeModeEdit
}

// Display returns the user-facing sentence for the mode
func (m AutodailyChangeMode) Display() string {
	switch m {
	case ChangeModePostNew:
		return "Post new daily on change."
	case ChangeModeDeleteAndPostNew:
		return "Delete daily post and post new daily on change."
	case ChangeModeEdit:
		return "Edit daily post on change."
	default:
		return "<not specified>"
	}
}

// NotifyKind discriminates the two possible autodaily notify targets
type NotifyKind int16

const (
	NotifyKindUser NotifyKind = 1
	NotifyKindRole NotifyKind = 2
)

// NotifyKindFromInt decodes a persisted notify type code. Unknown codes decode
// to ok=false rather than failing.
func NotifyKindFromInt(v int16) (NotifyKind, bool) {
	kind := NotifyKind(v)
	if kind == NotifyKindUser || kind == NotifyKindRole {
		return kind, true
	}
	return 0, false
}

// Valid reports whether the kind is user or role
func (k NotifyKind) Valid() bool {
	return k == NotifyKindUser || k == NotifyKindRole
}

// Display returns the short noun used in settings output
func (k NotifyKind) Display() string {
	switch k {
	case NotifyKindUser:
		return "user"
	case NotifyKindRole:
		return "role"
	default:
		return ""
	}
}

// NotifyTarget is the user-or-role to ping when the autodaily post changes.
// It is a closed two-variant union; Kind must always agree with what ID refers to.
type NotifyTarget struct {
	Kind NotifyKind
	ID   int64
}

// Mention returns the Discord mention string for the target
func (t NotifyTarget) Mention() string {
	switch t.Kind {
	case NotifyKindRole:
		return "<@&" + strconv.FormatInt(t.ID, 10) + ">"
	default:
		return "<@" + strconv.FormatInt(t.ID, 10) + ">"
	}
}

// DailyMessage carries the identity and timestamps of a posted daily announcement
type DailyMessage struct {
	ID        int64
	CreatedAt time.Time
	EditedAt  *time.Time
}

// ModifiedAt returns the edit time, falling back to the creation time
func (m DailyMessage) ModifiedAt() time.Time {
	if m.EditedAt != nil {
		return *m.EditedAt
	}
	return m.CreatedAt
}

// GuildSettingsRecord is one serversettings row. Nullable columns are pointers;
// absence of the row is equivalent to all fields unset.
type GuildSettingsRecord struct {
	GuildID                      int64                `db:"guildid"`
	Prefix                       *string              `db:"prefix"`
	UsePagination                *bool                `db:"usepagination"`
	DailyCanPost                 *bool                `db:"dailycanpost"`
	DailyChannelID               *int64               `db:"dailychannelid"`
	DailyLatestMessageID         *int64               `db:"dailylatestmessageid"`
	DailyChangeMode              *AutodailyChangeMode `db:"dailychangemode"`
	DailyNotifyID                *int64               `db:"dailynotifyid"`
	DailyNotifyType              *int16               `db:"dailynotifytype"`
	DailyLatestMessageCreatedAt  *time.Time           `db:"dailylatestmessagecreatedate"`
	DailyLatestMessageModifiedAt *time.Time           `db:"dailylatestmessagemodifydate"`
	BotNewsChannelID             *int64               `db:"botnewschannelid"`
}

// NotifyTarget reconstructs the stored notify target, if any. A stored id with
// an unknown kind code yields nil.
func (r *GuildSettingsRecord) NotifyTarget() *NotifyTarget {
	if r.DailyNotifyID == nil || r.DailyNotifyType == nil {
		return nil
	}
	kind, ok := NotifyKindFromInt(*r.DailyNotifyType)
	if !ok {
		return nil
	}
	return &NotifyTarget{Kind: kind, ID: *r.DailyNotifyID}
}

// ChangeMode returns the stored change mode, defaulting when unset
func (r *GuildSettingsRecord) ChangeMode() AutodailyChangeMode {
	if r.DailyChangeMode == nil || !r.DailyChangeMode.Valid() {
		return DefaultAutodailyChangeMode
	}
	return *r.DailyChangeMode
}
