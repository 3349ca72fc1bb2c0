package bot

import (
	"starbot/bot/common"
	"starbot/service"

	"github.com/bwmarrin/discordgo"
)

// sessionDirectory resolves live Discord objects through the session, checking
// the state cache before the REST API. Misses are reported, never errors.
type sessionDirectory struct {
	session *discordgo.Session
}

func newSessionDirectory(session *discordgo.Session) *sessionDirectory {
	return &sessionDirectory{session: session}
}

func (d *sessionDirectory) Channel(id int64) (*service.ChannelRef, bool) {
	channelID := common.FormatSnowflake(id)
	channel, err := d.session.State.Channel(channelID)
	if err != nil {
		channel, err = d.session.Channel(channelID)
	}
	if err != nil || channel == nil {
		return nil, false
	}
	return &service.ChannelRef{ID: id, Name: channel.Name}, true
}

func (d *sessionDirectory) Guild(id int64) (*service.GuildRef, bool) {
	guildID := common.FormatSnowflake(id)
	guild, err := d.session.State.Guild(guildID)
	if err != nil {
		guild, err = d.session.Guild(guildID)
	}
	if err != nil || guild == nil {
		return nil, false
	}
	return &service.GuildRef{ID: id, Name: guild.Name}, true
}

func (d *sessionDirectory) Member(guildID, userID int64) (*service.MemberRef, bool) {
	gid := common.FormatSnowflake(guildID)
	uid := common.FormatSnowflake(userID)
	member, err := d.session.State.Member(gid, uid)
	if err != nil {
		member, err = d.session.GuildMember(gid, uid)
	}
	if err != nil || member == nil || member.User == nil {
		return nil, false
	}

	displayName := member.Nick
	if displayName == "" {
		displayName = member.User.Username
	}
	return &service.MemberRef{
		ID:          userID,
		Username:    member.User.Username,
		DisplayName: displayName,
	}, true
}

func (d *sessionDirectory) Role(guildID, roleID int64) (*service.RoleRef, bool) {
	gid := common.FormatSnowflake(guildID)
	rid := common.FormatSnowflake(roleID)
	role, err := d.session.State.Role(gid, rid)
	if err != nil {
		roles, rolesErr := d.session.GuildRoles(gid)
		if rolesErr != nil {
			return nil, false
		}
		for _, r := range roles {
			if r.ID == rid {
				role = r
				break
			}
		}
	}
	if role == nil {
		return nil, false
	}
	return &service.RoleRef{ID: roleID, Name: role.Name}, true
}
