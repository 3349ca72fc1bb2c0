package research

import (
	"fmt"
	"strconv"
	"strings"

	"starbot/models"

	"github.com/bwmarrin/discordgo"
)

// Sets larger than this render in the short one-line-per-research form.
const bigSetThreshold = 3

// buildResearchEmbeds renders one embed per matching research
func buildResearchEmbeds(details []*models.ResearchDetails) []*discordgo.MessageEmbed {
	embeds := make([]*discordgo.MessageEmbed, 0, len(details))
	for _, d := range details {
		embed := &discordgo.MessageEmbed{
			Title:       d.Name,
			Description: d.Description,
			Color:       0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Cost", Value: d.CostDisplay, Inline: true},
				{Name: "Duration", Value: d.DurationDisplay, Inline: true},
				{Name: "Required LAB lvl", Value: strconv.Itoa(d.RequiredLabLevel), Inline: true},
			},
		}
		if d.RequiredResearchName != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   "Required Research",
				Value:  d.RequiredResearchName,
				Inline: true,
			})
		}
		embeds = append(embeds, embed)
	}
	return embeds
}

// buildResearchText renders the matches as plain text, switching to a compact
// form for result sets larger than a few entries.
func buildResearchText(name string, details []*models.ResearchDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Research stats for **%s**\n", name)

	bigSet := len(details) > bigSetThreshold
	for _, d := range details {
		if bigSet {
			fmt.Fprintf(&sb, "**%s** — %s, %s, LAB lvl %d\n", d.Name, d.CostDisplay, d.DurationDisplay, d.RequiredLabLevel)
			continue
		}

		fmt.Fprintf(&sb, "\n**%s**\n", d.Name)
		if d.Description != "" {
			fmt.Fprintf(&sb, "_%s_\n", d.Description)
		}
		fmt.Fprintf(&sb, "Cost: %s\n", d.CostDisplay)
		fmt.Fprintf(&sb, "Duration: %s\n", d.DurationDisplay)
		fmt.Fprintf(&sb, "Required LAB lvl: %d\n", d.RequiredLabLevel)
		if d.RequiredResearchName != "" {
			fmt.Fprintf(&sb, "Required Research: %s\n", d.RequiredResearchName)
		}
	}
	return sb.String()
}
