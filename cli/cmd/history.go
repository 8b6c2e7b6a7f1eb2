package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/parley-im/parley/cli/render"
	"github.com/parley-im/parley/cli/tui"
	"github.com/parley-im/parley/journal"
	"github.com/parley-im/parley/types"
)

// HistoryCommand returns the history command, which fetches and prints
// one conversation's message history.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Show a conversation's message history",
		ArgsUsage: "<conversation-id>",
		Flags: append(ReadOnlyFlags(),
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Additional history pages to fetch",
				Value: 0,
			},
			VerboseFlag,
		),
		Action: historyAction,
	}
}

func historyAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: parley history <conversation-id>", 1)
	}
	id := types.ConversationID(c.Args().First())

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

	if err := cl.Coordinator().SyncConversation(c.Context, id); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	for i := 0; i < c.Int("pages"); i++ {
		fetched, err := cl.Coordinator().PageBack(c.Context, id)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if fetched == 0 {
			break
		}
	}

	conv, ok := cl.Table().Get(id)
	if !ok {
		return cli.Exit("conversation not found: "+string(id), 1)
	}
	view := historyView(conv)

	if c.Bool("tui") {
		return r.RenderTUI("history", view)
	}
	return r.Render(view)
}

func historyView(conv *journal.Conversation) tui.HistoryView {
	meta := conv.Meta()
	view := tui.HistoryView{
		ConversationID: string(conv.ID()),
		Name:           conv.Name(),
	}
	for _, e := range conv.Journal().Events() {
		if e.ChatMessage == nil {
			continue
		}
		sender := e.SenderID.Key()
		if meta != nil {
			sender = meta.ParticipantName(e.SenderID)
		}
		view.Messages = append(view.Messages, tui.MessageRow{
			Time:   time.UnixMicro(e.Timestamp).Local().Format("2006-01-02 15:04"),
			Sender: sender,
			Text:   e.Text(),
		})
	}
	return view
}
