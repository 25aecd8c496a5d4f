package disc

import (
	"testing"

	"RoleBoard/cons"
	"RoleBoard/page"

	"github.com/bwmarrin/discordgo"
)

func TestRenderPage(t *testing.T) {
	t.Run("header page", func(t *testing.T) {
		msg := RenderPage(page.Page{
			Embed:    &page.Header{Title: "Games", Description: "Pick one"},
			Controls: []page.Button{{CustomID: "assignRole_a", Label: "A"}, {CustomID: "assignRole_b", Label: "B"}},
		})
		if len(msg.Embeds) != 1 || msg.Embeds[0].Title != "Games" || msg.Embeds[0].Color != cons.ColorNotice {
			t.Fatalf("unexpected embeds %+v", msg.Embeds)
		}
		if msg.Embeds[0].Footer == nil || msg.Embeds[0].Footer.Text != cons.NoticeFooter {
			t.Fatalf("expected footer")
		}
		if len(msg.Components) != 1 {
			t.Fatalf("expected one row, got %d", len(msg.Components))
		}
		row := msg.Components[0].(discordgo.ActionsRow)
		if len(row.Components) != 2 {
			t.Fatalf("expected 2 buttons, got %d", len(row.Components))
		}
		b := row.Components[1].(discordgo.Button)
		if b.CustomID != "assignRole_b" || b.Label != "B" || b.Style != discordgo.PrimaryButton {
			t.Fatalf("unexpected button %+v", b)
		}
	})

	t.Run("controls only", func(t *testing.T) {
		msg := RenderPage(page.Page{Controls: []page.Button{{CustomID: cons.SelectAllID, Label: "All"}}})
		if len(msg.Embeds) != 0 || msg.Content != "" {
			t.Fatalf("expected components-only message")
		}
		if len(msg.Components) != 1 {
			t.Fatalf("expected one row")
		}
	})
}
