package bot

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"starbot/bot/common"
	"starbot/events"
	"starbot/models"
	"starbot/service"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
)

// DailyContentProvider produces the body of the daily post
type DailyContentProvider interface {
	DailyContent(ctx context.Context) (string, error)
}

// DailyPoster delivers the daily post to every configured guild once per UTC
// day, honoring each guild's change mode for the previous post.
type DailyPoster struct {
	session  *discordgo.Session
	settings *service.GuildSettingsCollection
	content  DailyContentProvider
	eventBus *events.Bus
	cron     *cron.Cron
}

func NewDailyPoster(session *discordgo.Session, settings *service.GuildSettingsCollection, content DailyContentProvider, eventBus *events.Bus, postHour int) *DailyPoster {
	poster := &DailyPoster{
		session:  session,
		settings: settings,
		content:  content,
		eventBus: eventBus,
		cron:     cron.New(cron.WithLocation(time.UTC)),
	}

	schedule := fmt.Sprintf("0 %d * * *", postHour)
	if _, err := poster.cron.AddFunc(schedule, poster.PostAll); err != nil {
		log.Fatalf("Failed to schedule daily poster: %v", err)
	}
	return poster
}

// Start begins the posting schedule
func (p *DailyPoster) Start() {
	p.cron.Start()
	log.Info("Daily poster started")
}

// Stop halts the posting schedule
func (p *DailyPoster) Stop() {
	p.cron.Stop()
}

// PostAll delivers the daily to every guild that is due. A failing guild is
// logged and skipped so one broken channel cannot stall the rest.
func (p *DailyPoster) PostAll() {
	ctx := context.Background()

	content, err := p.content.DailyContent(ctx)
	if err != nil {
		log.Errorf("Failed to build daily content: %v", err)
		return
	}

	due := p.settings.AutodailySettingsDue(time.Now())
	log.WithField("guild_count", len(due)).Info("Posting daily")

	for _, ad := range due {
		if err := p.postGuild(ctx, ad, content); err != nil {
			log.WithField("guild_id", ad.GuildID()).Errorf("Failed to post daily: %v", err)
		}
	}
}

func (p *DailyPoster) postGuild(ctx context.Context, ad *service.AutodailySettings, content string) error {
	channelID := ad.ChannelID()
	if channelID == nil {
		return nil
	}
	channel := common.FormatSnowflake(*channelID)

	body := content
	if target := ad.Notify(); target != nil {
		body = target.Mention() + "\n" + content
	}

	var posted *discordgo.Message
	var err error

	latestID := ad.LatestMessageID()
	switch ad.ChangeMode() {
	case models.ChangeModeEdit:
		if latestID != nil {
			posted, err = p.session.ChannelMessageEdit(channel, common.FormatSnowflake(*latestID), body)
			if err == nil {
				break
			}
			// The previous post may have been deleted by a moderator.
			log.WithField("guild_id", ad.GuildID()).Warnf("Failed to edit previous daily, posting new: %v", err)
		}
		posted, err = p.session.ChannelMessageSend(channel, body)
	case models.ChangeModeDeleteAndPostNew:
		if latestID != nil {
			if delErr := p.session.ChannelMessageDelete(channel, common.FormatSnowflake(*latestID)); delErr != nil {
				log.WithField("guild_id", ad.GuildID()).Warnf("Failed to delete previous daily: %v", delErr)
			}
		}
		posted, err = p.session.ChannelMessageSend(channel, body)
	default:
		posted, err = p.session.ChannelMessageSend(channel, body)
	}
	if err != nil {
		p.recordCanPost(ctx, ad, false)
		return fmt.Errorf("failed to deliver daily message: %w", err)
	}
	p.recordCanPost(ctx, ad, true)

	daily, err := dailyMessageFrom(posted)
	if err != nil {
		return err
	}
	if err := ad.SetLatestMessage(ctx, daily); err != nil {
		return fmt.Errorf("failed to record daily message: %w", err)
	}

	p.eventBus.Emit(ctx, events.DailyPostedEvent{
		GuildID:   ad.GuildID(),
		ChannelID: *channelID,
		MessageID: daily.ID,
	})
	return nil
}

// recordCanPost keeps the stored delivery flag in sync with the last attempt
func (p *DailyPoster) recordCanPost(ctx context.Context, ad *service.AutodailySettings, canPost bool) {
	if err := ad.Update(ctx, service.AutodailyUpdate{CanPost: &canPost}); err != nil {
		log.WithField("guild_id", ad.GuildID()).Warnf("Failed to record delivery flag: %v", err)
	}
}

// dailyMessageFrom converts a delivered Discord message into the recorded form
func dailyMessageFrom(msg *discordgo.Message) (*models.DailyMessage, error) {
	id, err := common.ParseSnowflake(msg.ID)
	if err != nil {
		return nil, err
	}

	daily := &models.DailyMessage{
		ID:        id,
		CreatedAt: msg.Timestamp.UTC(),
	}
	if msg.EditedTimestamp != nil {
		edited := msg.EditedTimestamp.UTC()
		daily.EditedAt = &edited
	}
	return daily, nil
}
