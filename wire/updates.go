package wire

import (
	"github.com/parley-im/parley/types"
)

// StateUpdate wire layout. The variant field numbers (3..16) double as
// the classification priority: lowest populated number wins when the
// server violates the one-variant rule.
//
//	1  state_update_header
//	2  conversation (snapshot)
//	3  event_notification
//	4  focus_notification
//	5  typing_notification
//	6  notification_level_notification
//	7  reply_to_invite_notification
//	8  watermark_notification
//	9  view_modification
//	10 easter_egg_notification
//	11 self_presence_notification
//	12 delete_notification
//	13 presence_notification
//	14 block_notification
//	15 notification_setting_notification
//	16 rich_presence_enabled_notification

func encodeStateUpdateHeader(h *types.StateUpdateHeader) []byte {
	var b []byte
	b = appendEnum(b, 1, h.ActiveClientState)
	b = appendString(b, 3, h.RequestTraceID)
	if h.NotificationSettings != nil {
		var nb []byte
		if h.NotificationSettings.DNDSetting != nil {
			nb = appendMsg(nb, 1, encodeDNDSetting(h.NotificationSettings.DNDSetting))
		}
		b = appendMsg(b, 4, nb)
	}
	b = appendInt64(b, 5, h.CurrentServerTime)
	return b
}

func parseStateUpdateHeader(raw []byte) (*types.StateUpdateHeader, error) {
	h := new(types.StateUpdateHeader)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, getEnum(d, &h.ActiveClientState)
		case 3:
			return true, d.getString(&h.RequestTraceID)
		case 4:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			ns := new(types.NotificationSettings)
			err = parseFields(body, func(d *dec) (bool, error) {
				if d.num == 1 {
					inner, ok, err := d.bytes()
					if err != nil || !ok {
						return true, err
					}
					s, err := parseDNDSetting(inner)
					if err != nil {
						return true, err
					}
					ns.DNDSetting = s
					return true, nil
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			h.NotificationSettings = ns
			return true, nil
		case 5:
			return true, d.getInt64(&h.CurrentServerTime)
		}
		return false, nil
	})
	return h, err
}

func encodeFocusNotification(n *types.SetFocusNotification) []byte {
	var b []byte
	b = appendConvID(b, 1, n.ConversationID)
	b = appendUserID(b, 2, n.SenderID)
	b = appendInt64(b, 3, n.Timestamp)
	b = appendEnum(b, 4, n.Type)
	return b
}

func parseFocusNotification(raw []byte) (*types.SetFocusNotification, error) {
	n := new(types.SetFocusNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeConvIDField(d, &n.ConversationID)
		case 2:
			return true, decodeUserIDField(d, &n.SenderID)
		case 3:
			return true, d.getInt64(&n.Timestamp)
		case 4:
			return true, getEnum(d, &n.Type)
		}
		return false, nil
	})
	return n, err
}

func encodeTypingNotification(n *types.SetTypingNotification) []byte {
	var b []byte
	b = appendConvID(b, 1, n.ConversationID)
	b = appendUserID(b, 2, n.SenderID)
	b = appendInt64(b, 3, n.Timestamp)
	b = appendEnum(b, 4, n.Type)
	return b
}

func parseTypingNotification(raw []byte) (*types.SetTypingNotification, error) {
	n := new(types.SetTypingNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeConvIDField(d, &n.ConversationID)
		case 2:
			return true, decodeUserIDField(d, &n.SenderID)
		case 3:
			return true, d.getInt64(&n.Timestamp)
		case 4:
			return true, getEnum(d, &n.Type)
		}
		return false, nil
	})
	return n, err
}

func encodeNotificationLevelNotification(n *types.SetNotificationLevelNotification) []byte {
	var b []byte
	b = appendConvID(b, 1, n.ConversationID)
	b = appendEnum(b, 2, n.Level)
	b = appendInt64(b, 4, n.Timestamp)
	return b
}

func parseNotificationLevelNotification(raw []byte) (*types.SetNotificationLevelNotification, error) {
	n := new(types.SetNotificationLevelNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeConvIDField(d, &n.ConversationID)
		case 2:
			return true, getEnum(d, &n.Level)
		case 4:
			return true, d.getInt64(&n.Timestamp)
		}
		return false, nil
	})
	return n, err
}

func encodeReplyToInviteNotification(n *types.ReplyToInviteNotification) []byte {
	var b []byte
	b = appendConvID(b, 1, n.ConversationID)
	b = appendEnum(b, 2, n.Type)
	return b
}

func parseReplyToInviteNotification(raw []byte) (*types.ReplyToInviteNotification, error) {
	n := new(types.ReplyToInviteNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeConvIDField(d, &n.ConversationID)
		case 2:
			return true, getEnum(d, &n.Type)
		}
		return false, nil
	})
	return n, err
}

func encodeWatermarkNotification(n *types.WatermarkNotification) []byte {
	var b []byte
	b = appendUserID(b, 1, n.SenderID)
	b = appendConvID(b, 2, n.ConversationID)
	b = appendInt64(b, 3, n.LatestReadTimestamp)
	return b
}

func parseWatermarkNotification(raw []byte) (*types.WatermarkNotification, error) {
	n := new(types.WatermarkNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeUserIDField(d, &n.SenderID)
		case 2:
			return true, decodeConvIDField(d, &n.ConversationID)
		case 3:
			return true, d.getInt64(&n.LatestReadTimestamp)
		}
		return false, nil
	})
	return n, err
}

func encodeViewModification(n *types.ConversationViewModification) []byte {
	var b []byte
	b = appendConvID(b, 1, n.ConversationID)
	b = appendEnum(b, 2, n.OldView)
	b = appendEnum(b, 3, n.NewView)
	return b
}

func parseViewModification(raw []byte) (*types.ConversationViewModification, error) {
	n := new(types.ConversationViewModification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeConvIDField(d, &n.ConversationID)
		case 2:
			return true, getEnum(d, &n.OldView)
		case 3:
			return true, getEnum(d, &n.NewView)
		}
		return false, nil
	})
	return n, err
}

func encodeEasterEggNotification(n *types.EasterEggNotification) []byte {
	var b []byte
	b = appendUserID(b, 1, n.SenderID)
	b = appendConvID(b, 2, n.ConversationID)
	if n.EasterEgg != nil {
		b = appendMsg(b, 3, appendString(nil, 1, n.EasterEgg.Message))
	}
	return b
}

func parseEasterEggNotification(raw []byte) (*types.EasterEggNotification, error) {
	n := new(types.EasterEggNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeUserIDField(d, &n.SenderID)
		case 2:
			return true, decodeConvIDField(d, &n.ConversationID)
		case 3:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			egg := new(types.EasterEgg)
			err = parseFields(body, func(d *dec) (bool, error) {
				if d.num == 1 {
					return true, d.getString(&egg.Message)
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			n.EasterEgg = egg
			return true, nil
		}
		return false, nil
	})
	return n, err
}

func encodeDeleteNotification(n *types.DeleteActionNotification) []byte {
	var b []byte
	b = appendConvID(b, 1, n.ConversationID)
	if n.DeleteAction != nil {
		b = appendMsg(b, 2, encodeDeleteAction(n.DeleteAction))
	}
	return b
}

func parseDeleteNotification(raw []byte) (*types.DeleteActionNotification, error) {
	n := new(types.DeleteActionNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeConvIDField(d, &n.ConversationID)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			a, err := parseDeleteAction(body)
			if err != nil {
				return true, err
			}
			n.DeleteAction = a
			return true, nil
		}
		return false, nil
	})
	return n, err
}

func encodePresenceNotification(n *types.PresenceNotification) []byte {
	var b []byte
	for _, r := range n.Presence {
		b = appendMsg(b, 1, encodePresenceResult(r))
	}
	return b
}

func parsePresenceNotification(raw []byte) (*types.PresenceNotification, error) {
	n := new(types.PresenceNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			r, err := parsePresenceResult(body)
			if err != nil {
				return true, err
			}
			n.Presence = append(n.Presence, r)
			return true, nil
		}
		return false, nil
	})
	return n, err
}

func encodeBlockNotification(n *types.BlockNotification) []byte {
	var b []byte
	for _, sc := range n.StateChanges {
		var cb []byte
		cb = appendUserID(cb, 1, sc.ParticipantID)
		cb = appendEnum(cb, 2, sc.NewBlockState)
		b = appendMsg(b, 1, cb)
	}
	return b
}

func parseBlockNotification(raw []byte) (*types.BlockNotification, error) {
	n := new(types.BlockNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			sc := new(types.BlockStateChange)
			err = parseFields(body, func(d *dec) (bool, error) {
				switch d.num {
				case 1:
					return true, decodeUserIDField(d, &sc.ParticipantID)
				case 2:
					return true, getEnum(d, &sc.NewBlockState)
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			n.StateChanges = append(n.StateChanges, sc)
			return true, nil
		}
		return false, nil
	})
	return n, err
}

func encodeSelfPresenceNotification(n *types.SelfPresenceNotification) []byte {
	return appendEnum(nil, 1, n.PresenceState)
}

func parseSelfPresenceNotification(raw []byte) (*types.SelfPresenceNotification, error) {
	n := new(types.SelfPresenceNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			return true, getEnum(d, &n.PresenceState)
		}
		return false, nil
	})
	return n, err
}

func encodeNotificationSettingNotification(n *types.SetNotificationSettingNotification) []byte {
	var b []byte
	if n.DNDSetting != nil {
		b = appendMsg(b, 1, encodeDNDSetting(n.DNDSetting))
	}
	return b
}

func parseNotificationSettingNotification(raw []byte) (*types.SetNotificationSettingNotification, error) {
	n := new(types.SetNotificationSettingNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			s, err := parseDNDSetting(body)
			if err != nil {
				return true, err
			}
			n.DNDSetting = s
			return true, nil
		}
		return false, nil
	})
	return n, err
}

func encodeRichPresenceEnabledNotification(n *types.RichPresenceEnabledNotification) []byte {
	return appendBoolPtr(nil, 1, n.Enabled)
}

func parseRichPresenceEnabledNotification(raw []byte) (*types.RichPresenceEnabledNotification, error) {
	n := new(types.RichPresenceEnabledNotification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			return true, d.getBoolPtr(&n.Enabled)
		}
		return false, nil
	})
	return n, err
}

// EncodeStateUpdate encodes a state update.
func EncodeStateUpdate(u *types.StateUpdate) []byte {
	var b []byte
	if u.Header != nil {
		b = appendMsg(b, 1, encodeStateUpdateHeader(u.Header))
	}
	if u.Conversation != nil {
		b = appendMsg(b, 2, EncodeConversation(u.Conversation))
	}
	if u.EventNotification != nil {
		var nb []byte
		if u.EventNotification.Event != nil {
			nb = appendMsg(nb, 1, EncodeEvent(u.EventNotification.Event))
		}
		b = appendMsg(b, 3, nb)
	}
	if u.FocusNotification != nil {
		b = appendMsg(b, 4, encodeFocusNotification(u.FocusNotification))
	}
	if u.TypingNotification != nil {
		b = appendMsg(b, 5, encodeTypingNotification(u.TypingNotification))
	}
	if u.NotificationLevelNotification != nil {
		b = appendMsg(b, 6, encodeNotificationLevelNotification(u.NotificationLevelNotification))
	}
	if u.ReplyToInviteNotification != nil {
		b = appendMsg(b, 7, encodeReplyToInviteNotification(u.ReplyToInviteNotification))
	}
	if u.WatermarkNotification != nil {
		b = appendMsg(b, 8, encodeWatermarkNotification(u.WatermarkNotification))
	}
	if u.ViewModification != nil {
		b = appendMsg(b, 9, encodeViewModification(u.ViewModification))
	}
	if u.EasterEggNotification != nil {
		b = appendMsg(b, 10, encodeEasterEggNotification(u.EasterEggNotification))
	}
	if u.SelfPresenceNotification != nil {
		b = appendMsg(b, 11, encodeSelfPresenceNotification(u.SelfPresenceNotification))
	}
	if u.DeleteNotification != nil {
		b = appendMsg(b, 12, encodeDeleteNotification(u.DeleteNotification))
	}
	if u.PresenceNotification != nil {
		b = appendMsg(b, 13, encodePresenceNotification(u.PresenceNotification))
	}
	if u.BlockNotification != nil {
		b = appendMsg(b, 14, encodeBlockNotification(u.BlockNotification))
	}
	if u.NotificationSettingNotification != nil {
		b = appendMsg(b, 15, encodeNotificationSettingNotification(u.NotificationSettingNotification))
	}
	if u.RichPresenceEnabledNotification != nil {
		b = appendMsg(b, 16, encodeRichPresenceEnabledNotification(u.RichPresenceEnabledNotification))
	}
	return b
}

// DecodeStateUpdate decodes a state update. All populated variants are
// decoded; exclusivity violations are the demultiplexer's concern.
func DecodeStateUpdate(raw []byte) (*types.StateUpdate, error) {
	u := new(types.StateUpdate)
	err := parseFields(raw, func(d *dec) (bool, error) {
		body, ok, err := d.bytes()
		if err != nil {
			return true, err
		}
		if !ok {
			// Wrong wire type for a message field; already skipped.
			return true, nil
		}
		switch d.num {
		case 1:
			h, err := parseStateUpdateHeader(body)
			if err != nil {
				return true, err
			}
			u.Header = h
		case 2:
			c, err := DecodeConversation(body)
			if err != nil {
				return true, err
			}
			u.Conversation = c
		case 3:
			n := new(types.EventNotification)
			err := parseFields(body, func(d *dec) (bool, error) {
				if d.num == 1 {
					inner, ok, err := d.bytes()
					if err != nil || !ok {
						return true, err
					}
					e, err := DecodeEvent(inner)
					if err != nil {
						return true, err
					}
					n.Event = e
					return true, nil
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			u.EventNotification = n
		case 4:
			n, err := parseFocusNotification(body)
			if err != nil {
				return true, err
			}
			u.FocusNotification = n
		case 5:
			n, err := parseTypingNotification(body)
			if err != nil {
				return true, err
			}
			u.TypingNotification = n
		case 6:
			n, err := parseNotificationLevelNotification(body)
			if err != nil {
				return true, err
			}
			u.NotificationLevelNotification = n
		case 7:
			n, err := parseReplyToInviteNotification(body)
			if err != nil {
				return true, err
			}
			u.ReplyToInviteNotification = n
		case 8:
			n, err := parseWatermarkNotification(body)
			if err != nil {
				return true, err
			}
			u.WatermarkNotification = n
		case 9:
			n, err := parseViewModification(body)
			if err != nil {
				return true, err
			}
			u.ViewModification = n
		case 10:
			n, err := parseEasterEggNotification(body)
			if err != nil {
				return true, err
			}
			u.EasterEggNotification = n
		case 11:
			n, err := parseSelfPresenceNotification(body)
			if err != nil {
				return true, err
			}
			u.SelfPresenceNotification = n
		case 12:
			n, err := parseDeleteNotification(body)
			if err != nil {
				return true, err
			}
			u.DeleteNotification = n
		case 13:
			n, err := parsePresenceNotification(body)
			if err != nil {
				return true, err
			}
			u.PresenceNotification = n
		case 14:
			n, err := parseBlockNotification(body)
			if err != nil {
				return true, err
			}
			u.BlockNotification = n
		case 15:
			n, err := parseNotificationSettingNotification(body)
			if err != nil {
				return true, err
			}
			u.NotificationSettingNotification = n
		case 16:
			n, err := parseRichPresenceEnabledNotification(body)
			if err != nil {
				return true, err
			}
			u.RichPresenceEnabledNotification = n
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EncodeBatchUpdate encodes a batch of state updates.
func EncodeBatchUpdate(b *types.BatchUpdate) []byte {
	var out []byte
	for _, u := range b.StateUpdates {
		out = appendMsg(out, 1, EncodeStateUpdate(u))
	}
	return out
}

// DecodeBatchUpdate decodes a batch of state updates, preserving
// delivery order.
func DecodeBatchUpdate(raw []byte) (*types.BatchUpdate, error) {
	b := new(types.BatchUpdate)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			u, err := DecodeStateUpdate(body)
			if err != nil {
				return true, err
			}
			b.StateUpdates = append(b.StateUpdates, u)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// EncodePushFrame encodes one push channel frame.
func EncodePushFrame(f *types.PushFrame) []byte {
	var b []byte
	b = appendString(b, 1, f.ClientID)
	if f.BatchUpdate != nil {
		b = appendMsg(b, 2, EncodeBatchUpdate(f.BatchUpdate))
	}
	return b
}

// DecodePushFrame decodes one push channel frame.
func DecodePushFrame(raw []byte) (*types.PushFrame, error) {
	f := new(types.PushFrame)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, d.getString(&f.ClientID)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			bu, err := DecodeBatchUpdate(body)
			if err != nil {
				return true, err
			}
			f.BatchUpdate = bu
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// decodeConvIDField decodes the current field as a ConversationId
// wrapper message.
func decodeConvIDField(d *dec, dst *types.ConversationID) error {
	body, ok, err := d.bytes()
	if err != nil || !ok {
		return err
	}
	id, err := parseConvID(body)
	if err != nil {
		return err
	}
	*dst = id
	return nil
}

// decodeUserIDField decodes the current field as a ParticipantId
// wrapper message.
func decodeUserIDField(d *dec, dst *types.UserID) error {
	body, ok, err := d.bytes()
	if err != nil || !ok {
		return err
	}
	u, err := parseUserID(body)
	if err != nil {
		return err
	}
	*dst = u
	return nil
}
