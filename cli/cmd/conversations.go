package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/parley-im/parley/cli/render"
	"github.com/parley-im/parley/cli/tui"
	"github.com/parley-im/parley/client"
)

// ConversationsCommand returns the conversations command, which syncs
// the recent conversation list and prints it.
func ConversationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "conversations",
		Usage: "List recent conversations",
		Flags: append(ReadOnlyFlags(),
			&cli.IntFlag{
				Name:  "max",
				Usage: "Maximum conversations to fetch",
				Value: 25,
			},
			VerboseFlag,
		),
		Action: conversationsAction,
	}
}

func conversationsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cl, err := buildClient(c, cfg, false)
	if err != nil {
		return err
	}

	if err := cl.Coordinator().Bootstrap(c.Context, int32(c.Int("max"))); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if _, err := cl.GetSelfInfo(c.Context); err != nil {
		// Unread counts degrade to zero without the self id.
		_ = err
	}

	rows := conversationRows(cl)
	if c.Bool("tui") {
		return r.RenderTUI("conversations", rows)
	}
	return r.Render(rows)
}

func conversationRows(cl *client.Client) []tui.ConversationRow {
	self := cl.SelfID()
	convs := cl.Table().List()
	rows := make([]tui.ConversationRow, 0, len(convs))
	for _, conv := range convs {
		row := tui.ConversationRow{
			ID:     string(conv.ID()),
			Name:   conv.Name(),
			Events: conv.Journal().Len(),
			Unread: conv.Journal().UnreadCount(self),
		}
		if meta := conv.Meta(); meta != nil {
			row.Participants = len(meta.CurrentParticipants)
		}
		if latest := conv.Journal().Latest(); latest != nil {
			row.LastActivity = time.UnixMicro(latest.Timestamp).Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, row)
	}
	return rows
}
