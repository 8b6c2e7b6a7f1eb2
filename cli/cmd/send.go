package cmd

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/parley-im/parley/cli/render"
	"github.com/parley-im/parley/types"
)

// SendResponse is the response for the send command.
type SendResponse struct {
	ConversationID string `json:"conversation_id"`
	EventID        string `json:"event_id"`
	Timestamp      string `json:"timestamp"`
	Text           string `json:"text"`
}

// SendCommand returns the send command, which delivers a chat message
// and reports the event the server created for it.
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Send a chat message",
		ArgsUsage: "<conversation-id> <message...>",
		Flags: append(ReadOnlyFlags(),
			VerboseFlag,
		),
		Action: sendAction,
	}
}

func sendAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: parley send <conversation-id> <message...>", 1)
	}
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for send command", 1)
	}
	id := types.ConversationID(c.Args().First())
	text := strings.Join(c.Args().Slice()[1:], " ")

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

	created, err := cl.SendText(c.Context, id, text)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	resp := SendResponse{
		ConversationID: string(id),
		Text:           text,
	}
	if created != nil {
		resp.EventID = string(created.EventID)
		resp.Timestamp = time.UnixMicro(created.Timestamp).Local().Format(time.RFC3339)
	}
	return r.Render(resp)
}
