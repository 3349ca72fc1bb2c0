package service

import (
	"context"
	"fmt"
	"time"

	"starbot/models"

	log "github.com/sirupsen/logrus"
)

// AutodailySettings is the autodaily sub-record of a GuildSettings entity. It
// shares the owning entity's cached row and lock; all writes go through the
// same diff-before-write cycle.
type AutodailySettings struct {
	gs *GuildSettings

	channel    *ChannelRef
	notifyName string
}

func newAutodailySettings(gs *GuildSettings) *AutodailySettings {
	ad := &AutodailySettings{gs: gs}

	if gs.record.DailyChannelID != nil {
		if channel, ok := gs.dir.Channel(*gs.record.DailyChannelID); ok {
			ad.channel = channel
		} else {
			log.Warnf("Could not get autodaily channel for id %d", *gs.record.DailyChannelID)
		}
	}

	if target := gs.record.NotifyTarget(); target != nil {
		ad.notifyName = ad.resolveNotifyName(target)
	}

	return ad
}

// resolveNotifyName looks up the display name for a notify target. A failed
// lookup yields "" and the caller falls back to a raw mention.
func (ad *AutodailySettings) resolveNotifyName(target *models.NotifyTarget) string {
	switch target.Kind {
	case models.NotifyKindUser:
		if member, ok := ad.gs.dir.Member(ad.gs.record.GuildID, target.ID); ok {
			return member.DisplayName
		}
	case models.NotifyKindRole:
		if role, ok := ad.gs.dir.Role(ad.gs.record.GuildID, target.ID); ok {
			return role.Name
		}
	}
	log.Warnf("Could not resolve notify target %d for guild %d", target.ID, ad.gs.record.GuildID)
	return ""
}

// GuildID returns the owning guild identifier
func (ad *AutodailySettings) GuildID() int64 {
	return ad.gs.record.GuildID
}

// CanPost reports whether the bot may post into the autodaily channel
func (ad *AutodailySettings) CanPost() bool {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()
	return ad.gs.record.DailyCanPost != nil && *ad.gs.record.DailyCanPost
}

// Channel returns the resolved autodaily channel, or nil when unset
func (ad *AutodailySettings) Channel() *ChannelRef {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()
	return ad.channel
}

// ChannelID returns the stored autodaily channel id, or nil when unset
func (ad *AutodailySettings) ChannelID() *int64 {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()
	return ad.gs.record.DailyChannelID
}

// ChangeMode returns the stored change mode, defaulting when unset
func (ad *AutodailySettings) ChangeMode() models.AutodailyChangeMode {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()
	return ad.gs.record.ChangeMode()
}

// LatestMessageID returns the id of the most recently recorded daily post
func (ad *AutodailySettings) LatestMessageID() *int64 {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()
	return ad.gs.record.DailyLatestMessageID
}

// LatestMessageCreatedAt returns when the first post of the current day was recorded
func (ad *AutodailySettings) LatestMessageCreatedAt() *time.Time {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()
	return ad.gs.record.DailyLatestMessageCreatedAt
}

// LatestMessageModifiedAt returns when the daily post was last touched
func (ad *AutodailySettings) LatestMessageModifiedAt() *time.Time {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()
	return ad.gs.record.DailyLatestMessageModifiedAt
}

// Notify returns the configured notify target, or nil when unset
func (ad *AutodailySettings) Notify() *models.NotifyTarget {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()
	return ad.gs.record.NotifyTarget()
}

// NotifyDisplay renders the notify target for settings output
func (ad *AutodailySettings) NotifyDisplay() string {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	target := ad.gs.record.NotifyTarget()
	if target == nil {
		return "<not set>"
	}
	if ad.notifyName == "" {
		return fmt.Sprintf("%s (%s)", target.Mention(), target.Kind.Display())
	}
	return fmt.Sprintf("%s (%s)", ad.notifyName, target.Kind.Display())
}

// IsConfigured reports whether any autodaily setting deviates from the defaults
func (ad *AutodailySettings) IsConfigured() bool {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()
	record := ad.gs.record
	return record.DailyChannelID != nil || record.DailyNotifyID != nil ||
		record.ChangeMode() != models.DefaultAutodailyChangeMode
}

// SetChannel stores a new autodaily channel, clearing the recorded latest
// message id in the same statement. Setting the current channel again is a
// no-op.
func (ad *AutodailySettings) SetChannel(ctx context.Context, channel *ChannelRef) error {
	if channel == nil {
		return fmt.Errorf("a text channel is required")
	}

	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	record := ad.gs.record
	if record.DailyChannelID != nil && *record.DailyChannelID == channel.ID {
		return nil
	}

	err := ad.gs.applyPatch(ctx, &models.SettingsPatch{
		DailyChannelID:       models.Set(channel.ID),
		DailyLatestMessageID: models.Clear[int64](),
	})
	if err != nil {
		return err
	}

	ad.channel = channel
	return nil
}

// messagePatch folds the latest-message columns for recording msg into patch,
// applying the new-day rule: created-at only moves when the message lands on a
// new UTC calendar day relative to the stored created-at, so a same-day edit
// advances modified-at without resetting the "first posted" timestamp.
// Reports whether anything would change. Callers must hold gs.mu.
func (ad *AutodailySettings) messagePatch(msg *models.DailyMessage, patch *models.SettingsPatch) bool {
	record := ad.gs.record

	newDay := record.DailyLatestMessageCreatedAt == nil ||
		msg.CreatedAt.UTC().Day() != record.DailyLatestMessageCreatedAt.UTC().Day()

	var modifiedAt time.Time
	if newDay {
		modifiedAt = msg.CreatedAt
	} else {
		modifiedAt = msg.ModifiedAt()
	}

	sameID := record.DailyLatestMessageID != nil && *record.DailyLatestMessageID == msg.ID
	sameModified := record.DailyLatestMessageModifiedAt != nil && record.DailyLatestMessageModifiedAt.Equal(modifiedAt)
	if sameID && sameModified {
		return false
	}

	patch.DailyLatestMessageID = models.Set(msg.ID)
	patch.DailyLatestMessageModifiedAt = models.Set(modifiedAt)
	if newDay {
		patch.DailyLatestMessageCreatedAt = models.Set(msg.CreatedAt)
	}
	return true
}

// SetLatestMessage records the posted daily message, or clears the recorded
// message when msg is nil. Recording a message whose id and modified time
// match current state is a no-op.
func (ad *AutodailySettings) SetLatestMessage(ctx context.Context, msg *models.DailyMessage) error {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	patch := &models.SettingsPatch{}
	if msg == nil {
		patch.DailyLatestMessageID = models.Clear[int64]()
		patch.DailyLatestMessageCreatedAt = models.Clear[time.Time]()
		patch.DailyLatestMessageModifiedAt = models.Clear[time.Time]()
	} else if !ad.messagePatch(msg, patch) {
		return nil
	}

	return ad.gs.applyPatch(ctx, patch)
}

// SetNotify stores the user or role to ping on autodaily changes. The target's
// kind must be one of the two known variants.
func (ad *AutodailySettings) SetNotify(ctx context.Context, target *models.NotifyTarget) error {
	if target == nil {
		return fmt.Errorf("the provided mention is neither a role nor a user")
	}
	if !target.Kind.Valid() {
		return fmt.Errorf("the provided mention is neither a role nor a user")
	}

	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	record := ad.gs.record
	if record.DailyNotifyID != nil && *record.DailyNotifyID == target.ID {
		return nil
	}

	err := ad.gs.applyPatch(ctx, &models.SettingsPatch{
		DailyNotifyID:   models.Set(target.ID),
		DailyNotifyType: models.Set(target.Kind),
	})
	if err != nil {
		return err
	}

	ad.notifyName = ad.resolveNotifyName(target)
	return nil
}

// ToggleChangeMode cycles post-new -> delete-and-post-new -> edit -> post-new
// and returns the resulting mode. The toggle always writes.
func (ad *AutodailySettings) ToggleChangeMode(ctx context.Context) (models.AutodailyChangeMode, error) {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	current := ad.gs.record.ChangeMode()
	next := current.Next()

	err := ad.gs.applyPatch(ctx, &models.SettingsPatch{
		DailyChangeMode: models.Set(next),
	})
	if err != nil {
		return current, err
	}
	return next, nil
}

// AutodailyUpdate is the batched mutation input for Update. Nil fields are
// left alone; StoreNowAsCreatedAt marks "no post today yet" when no explicit
// message is supplied.
type AutodailyUpdate struct {
	Channel             *ChannelRef
	CanPost             *bool
	LatestMessage       *models.DailyMessage
	ChangeMode          *models.AutodailyChangeMode
	Notify              *models.NotifyTarget
	StoreNowAsCreatedAt bool
}

// Update diffs every supplied field against current state, accumulates only
// the changed columns into one statement, and applies all changes to the
// cached row together on success.
func (ad *AutodailySettings) Update(ctx context.Context, update AutodailyUpdate) error {
	if update.Notify != nil && !update.Notify.Kind.Valid() {
		return fmt.Errorf("the provided mention is neither a role nor a user")
	}
	if update.ChangeMode != nil && !update.ChangeMode.Valid() {
		return fmt.Errorf("unknown change mode %d", *update.ChangeMode)
	}

	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	record := ad.gs.record
	patch := &models.SettingsPatch{}

	if update.Channel != nil && (record.DailyChannelID == nil || *record.DailyChannelID != update.Channel.ID) {
		patch.DailyChannelID = models.Set(update.Channel.ID)
	}
	if update.CanPost != nil && (record.DailyCanPost == nil || *record.DailyCanPost != *update.CanPost) {
		patch.DailyCanPost = models.Set(*update.CanPost)
	}
	if update.LatestMessage != nil {
		ad.messagePatch(update.LatestMessage, patch)
	} else if update.StoreNowAsCreatedAt {
		patch.DailyLatestMessageCreatedAt = models.Set(ad.gs.now().UTC())
	}
	if update.ChangeMode != nil && *update.ChangeMode != record.ChangeMode() {
		patch.DailyChangeMode = models.Set(*update.ChangeMode)
	}
	if update.Notify != nil && (record.DailyNotifyID == nil || *record.DailyNotifyID != update.Notify.ID) {
		patch.DailyNotifyID = models.Set(update.Notify.ID)
		patch.DailyNotifyType = models.Set(update.Notify.Kind)
	}

	if patch.IsEmpty() {
		return nil
	}

	if err := ad.gs.applyPatch(ctx, patch); err != nil {
		return err
	}

	if patch.DailyChannelID.IsSet() {
		ad.channel = update.Channel
	}
	if patch.DailyNotifyID.IsSet() {
		ad.notifyName = ad.resolveNotifyName(update.Notify)
	}
	return nil
}

// Reset clears the whole autodaily configuration, restoring the default
// change mode. Resetting an unconfigured guild succeeds without a write.
func (ad *AutodailySettings) Reset(ctx context.Context) error {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	record := ad.gs.record
	if record.DailyChannelID == nil && record.DailyLatestMessageID == nil &&
		record.DailyNotifyID == nil && record.DailyNotifyType == nil &&
		record.DailyLatestMessageCreatedAt == nil && record.DailyLatestMessageModifiedAt == nil &&
		record.ChangeMode() == models.DefaultAutodailyChangeMode {
		return nil
	}

	err := ad.gs.applyPatch(ctx, &models.SettingsPatch{
		DailyChannelID:               models.Clear[int64](),
		DailyLatestMessageID:         models.Clear[int64](),
		DailyChangeMode:              models.Set(models.DefaultAutodailyChangeMode),
		DailyNotifyID:                models.Clear[int64](),
		DailyNotifyType:              models.Clear[models.NotifyKind](),
		DailyLatestMessageCreatedAt:  models.Clear[time.Time](),
		DailyLatestMessageModifiedAt: models.Clear[time.Time](),
	})
	if err != nil {
		return err
	}

	ad.channel = nil
	ad.notifyName = ""
	return nil
}

// ResetChannel clears the autodaily channel and the recorded message
func (ad *AutodailySettings) ResetChannel(ctx context.Context) error {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	record := ad.gs.record
	if record.DailyChannelID == nil && record.DailyLatestMessageID == nil &&
		record.DailyLatestMessageCreatedAt == nil && record.DailyLatestMessageModifiedAt == nil {
		return nil
	}

	err := ad.gs.applyPatch(ctx, &models.SettingsPatch{
		DailyChannelID:               models.Clear[int64](),
		DailyLatestMessageID:         models.Clear[int64](),
		DailyLatestMessageCreatedAt:  models.Clear[time.Time](),
		DailyLatestMessageModifiedAt: models.Clear[time.Time](),
	})
	if err != nil {
		return err
	}

	ad.channel = nil
	return nil
}

// ResetLatestMessage clears the recorded message identity and timestamps
func (ad *AutodailySettings) ResetLatestMessage(ctx context.Context) error {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	record := ad.gs.record
	if record.DailyLatestMessageID == nil &&
		record.DailyLatestMessageCreatedAt == nil && record.DailyLatestMessageModifiedAt == nil {
		return nil
	}

	return ad.gs.applyPatch(ctx, &models.SettingsPatch{
		DailyLatestMessageID:         models.Clear[int64](),
		DailyLatestMessageCreatedAt:  models.Clear[time.Time](),
		DailyLatestMessageModifiedAt: models.Clear[time.Time](),
	})
}

// ResetNotify clears the notify target
func (ad *AutodailySettings) ResetNotify(ctx context.Context) error {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	record := ad.gs.record
	if record.DailyNotifyID == nil && record.DailyNotifyType == nil {
		return nil
	}

	err := ad.gs.applyPatch(ctx, &models.SettingsPatch{
		DailyNotifyID:   models.Clear[int64](),
		DailyNotifyType: models.Clear[models.NotifyKind](),
	})
	if err != nil {
		return err
	}

	ad.notifyName = ""
	return nil
}

// ResetChangeMode restores the default change mode
func (ad *AutodailySettings) ResetChangeMode(ctx context.Context) error {
	ad.gs.mu.Lock()
	defer ad.gs.mu.Unlock()

	if ad.gs.record.ChangeMode() == models.DefaultAutodailyChangeMode {
		return nil
	}

	return ad.gs.applyPatch(ctx, &models.SettingsPatch{
		DailyChangeMode: models.Set(models.DefaultAutodailyChangeMode),
	})
}
