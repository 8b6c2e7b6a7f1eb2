package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/parley-im/parley/adapter"
	"github.com/parley-im/parley/demux"
	"github.com/parley-im/parley/types"
)

// WatchCommand returns the watch command, which keeps the push channel
// open and prints incoming messages until interrupted. Configured
// adapters receive every message as well.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Stream incoming messages until interrupted",
		Flags: []cli.Flag{
			ConfigFlag,
			VerboseFlag,
		},
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cl, err := buildClient(c, cfg, true)
	if err != nil {
		return err
	}

	adapters, err := buildAdapters(cfg)
	if err != nil {
		return err
	}

	var dispatcher *adapter.Dispatcher
	if len(adapters) > 0 {
		dispatcher = adapter.NewDispatcher(cl.Logger(), 0, adapters...)
		defer func() { _ = dispatcher.Close() }()
	}

	cl.Subscribe(func(n demux.Notification) {
		if n.Kind != demux.KindEvent {
			return
		}
		e := n.Update.EventNotification.Event
		if e == nil || e.ChatMessage == nil {
			return
		}

		var meta *types.Conversation
		sender := e.SenderID.Key()
		if conv, ok := cl.Table().Get(e.ConversationID); ok {
			meta = conv.Meta()
			if meta != nil {
				sender = meta.ParticipantName(e.SenderID)
			}
		}

		fmt.Printf("[%s] %s: %s\n",
			time.UnixMicro(e.Timestamp).Local().Format("15:04:05"),
			sender,
			e.Text())

		if dispatcher != nil {
			dispatcher.Enqueue(adapter.NewMessageEvent(e, meta))
		}
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cl.Run(ctx); err != nil && ctx.Err() == nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
