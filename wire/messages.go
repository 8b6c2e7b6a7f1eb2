package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/parley-im/parley/types"
)

// Conversation ids and participant ids travel as wrapper messages, the
// shape the source protocol uses: ConversationId{id=1} and
// ParticipantId{gaia_id=1, chat_id=2}.

func encodeConvID(id types.ConversationID) []byte {
	return appendString(nil, 1, string(id))
}

func appendConvID(b []byte, num protowire.Number, id types.ConversationID) []byte {
	if id == "" {
		return b
	}
	return appendMsg(b, num, encodeConvID(id))
}

func parseConvID(raw []byte) (types.ConversationID, error) {
	var id types.ConversationID
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			var s string
			if err := d.getString(&s); err != nil {
				return true, err
			}
			id = types.ConversationID(s)
			return true, nil
		}
		return false, nil
	})
	return id, err
}

func encodeUserID(u types.UserID) []byte {
	var b []byte
	b = appendString(b, 1, u.GaiaID)
	b = appendString(b, 2, u.ChatID)
	return b
}

func appendUserID(b []byte, num protowire.Number, u types.UserID) []byte {
	if u.IsZero() {
		return b
	}
	return appendMsg(b, num, encodeUserID(u))
}

func parseUserID(raw []byte) (types.UserID, error) {
	var u types.UserID
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, d.getString(&u.GaiaID)
		case 2:
			return true, d.getString(&u.ChatID)
		}
		return false, nil
	})
	return u, err
}

func encodeFormatting(f *types.Formatting) []byte {
	var b []byte
	b = appendBool(b, 1, f.Bold)
	b = appendBool(b, 2, f.Italic)
	b = appendBool(b, 3, f.Strikethrough)
	b = appendBool(b, 4, f.Underline)
	return b
}

func parseFormatting(raw []byte) (*types.Formatting, error) {
	f := new(types.Formatting)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, d.getBool(&f.Bold)
		case 2:
			return true, d.getBool(&f.Italic)
		case 3:
			return true, d.getBool(&f.Strikethrough)
		case 4:
			return true, d.getBool(&f.Underline)
		}
		return false, nil
	})
	return f, err
}

func encodeSegment(s *types.Segment) []byte {
	var b []byte
	b = appendEnum(b, 1, s.Type)
	b = appendString(b, 2, s.Text)
	if s.Formatting != nil {
		b = appendMsg(b, 3, encodeFormatting(s.Formatting))
	}
	if s.LinkData != nil {
		b = appendMsg(b, 4, appendString(nil, 1, s.LinkData.LinkTarget))
	}
	return b
}

func parseSegment(raw []byte) (*types.Segment, error) {
	s := new(types.Segment)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, getEnum(d, &s.Type)
		case 2:
			return true, d.getString(&s.Text)
		case 3:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			f, err := parseFormatting(body)
			if err != nil {
				return true, err
			}
			s.Formatting = f
			return true, nil
		case 4:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			ld := new(types.LinkData)
			err = parseFields(body, func(d *dec) (bool, error) {
				if d.num == 1 {
					return true, d.getString(&ld.LinkTarget)
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			s.LinkData = ld
			return true, nil
		}
		return false, nil
	})
	return s, err
}

func encodeMessageContent(m *types.MessageContent) []byte {
	var b []byte
	for _, s := range m.Segments {
		b = appendMsg(b, 1, encodeSegment(s))
	}
	return b
}

func parseMessageContent(raw []byte) (*types.MessageContent, error) {
	m := new(types.MessageContent)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			s, err := parseSegment(body)
			if err != nil {
				return true, err
			}
			m.Segments = append(m.Segments, s)
			return true, nil
		}
		return false, nil
	})
	return m, err
}

func encodeChatMessage(m *types.ChatMessage) []byte {
	var b []byte
	if m.Content != nil {
		b = appendMsg(b, 1, encodeMessageContent(m.Content))
	}
	return b
}

func parseChatMessage(raw []byte) (*types.ChatMessage, error) {
	m := new(types.ChatMessage)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			mc, err := parseMessageContent(body)
			if err != nil {
				return true, err
			}
			m.Content = mc
			return true, nil
		}
		return false, nil
	})
	return m, err
}

func encodeMembershipChange(m *types.MembershipChange) []byte {
	var b []byte
	b = appendEnum(b, 1, m.Type)
	for _, p := range m.ParticipantIDs {
		b = appendMsg(b, 3, encodeUserID(p))
	}
	return b
}

func parseMembershipChange(raw []byte) (*types.MembershipChange, error) {
	m := new(types.MembershipChange)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, getEnum(d, &m.Type)
		case 3:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			u, err := parseUserID(body)
			if err != nil {
				return true, err
			}
			m.ParticipantIDs = append(m.ParticipantIDs, u)
			return true, nil
		}
		return false, nil
	})
	return m, err
}

func encodeConversationRename(r *types.ConversationRename) []byte {
	var b []byte
	b = appendString(b, 1, r.NewName)
	b = appendString(b, 2, r.OldName)
	return b
}

func parseConversationRename(raw []byte) (*types.ConversationRename, error) {
	r := new(types.ConversationRename)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, d.getString(&r.NewName)
		case 2:
			return true, d.getString(&r.OldName)
		}
		return false, nil
	})
	return r, err
}

func encodeHangoutEvent(h *types.HangoutEvent) []byte {
	var b []byte
	b = appendEnum(b, 1, h.EventType)
	for _, p := range h.ParticipantIDs {
		b = appendMsg(b, 2, encodeUserID(p))
	}
	return b
}

func parseHangoutEvent(raw []byte) (*types.HangoutEvent, error) {
	h := new(types.HangoutEvent)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, getEnum(d, &h.EventType)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			u, err := parseUserID(body)
			if err != nil {
				return true, err
			}
			h.ParticipantIDs = append(h.ParticipantIDs, u)
			return true, nil
		}
		return false, nil
	})
	return h, err
}

func encodeOTRModification(o *types.OTRModification) []byte {
	var b []byte
	b = appendEnum(b, 1, o.OldStatus)
	b = appendEnum(b, 2, o.NewStatus)
	return b
}

func parseOTRModification(raw []byte) (*types.OTRModification, error) {
	o := new(types.OTRModification)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, getEnum(d, &o.OldStatus)
		case 2:
			return true, getEnum(d, &o.NewStatus)
		}
		return false, nil
	})
	return o, err
}

func encodeDeliveryMedium(m *types.DeliveryMedium) []byte {
	return appendEnum(nil, 1, m.MediumType)
}

func parseDeliveryMedium(raw []byte) (*types.DeliveryMedium, error) {
	m := new(types.DeliveryMedium)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			return true, getEnum(d, &m.MediumType)
		}
		return false, nil
	})
	return m, err
}

// EncodeEvent encodes a conversation event.
func EncodeEvent(e *types.Event) []byte {
	var b []byte
	b = appendConvID(b, 1, e.ConversationID)
	b = appendUserID(b, 2, e.SenderID)
	b = appendInt64(b, 3, e.Timestamp)
	if e.ChatMessage != nil {
		b = appendMsg(b, 7, encodeChatMessage(e.ChatMessage))
	}
	if e.MembershipChange != nil {
		b = appendMsg(b, 9, encodeMembershipChange(e.MembershipChange))
	}
	if e.ConversationRename != nil {
		b = appendMsg(b, 10, encodeConversationRename(e.ConversationRename))
	}
	if e.HangoutEvent != nil {
		b = appendMsg(b, 11, encodeHangoutEvent(e.HangoutEvent))
	}
	b = appendString(b, 12, string(e.EventID))
	b = appendBoolPtr(b, 13, e.AdvancesSortTimestamp)
	if e.OTRModification != nil {
		b = appendMsg(b, 14, encodeOTRModification(e.OTRModification))
	}
	b = appendEnum(b, 16, e.EventOTR)
	if e.DeliveryMedium != nil {
		b = appendMsg(b, 20, encodeDeliveryMedium(e.DeliveryMedium))
	}
	b = appendEnum(b, 23, e.EventType)
	return b
}

// DecodeEvent decodes a conversation event.
func DecodeEvent(raw []byte) (*types.Event, error) {
	e := new(types.Event)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			id, err := parseConvID(body)
			if err != nil {
				return true, err
			}
			e.ConversationID = id
			return true, nil
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			u, err := parseUserID(body)
			if err != nil {
				return true, err
			}
			e.SenderID = u
			return true, nil
		case 3:
			return true, d.getInt64(&e.Timestamp)
		case 7:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			m, err := parseChatMessage(body)
			if err != nil {
				return true, err
			}
			e.ChatMessage = m
			return true, nil
		case 9:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			m, err := parseMembershipChange(body)
			if err != nil {
				return true, err
			}
			e.MembershipChange = m
			return true, nil
		case 10:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			r, err := parseConversationRename(body)
			if err != nil {
				return true, err
			}
			e.ConversationRename = r
			return true, nil
		case 11:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			h, err := parseHangoutEvent(body)
			if err != nil {
				return true, err
			}
			e.HangoutEvent = h
			return true, nil
		case 12:
			var s string
			if err := d.getString(&s); err != nil {
				return true, err
			}
			e.EventID = types.EventID(s)
			return true, nil
		case 13:
			return true, d.getBoolPtr(&e.AdvancesSortTimestamp)
		case 14:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			o, err := parseOTRModification(body)
			if err != nil {
				return true, err
			}
			e.OTRModification = o
			return true, nil
		case 16:
			return true, getEnum(d, &e.EventOTR)
		case 20:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			m, err := parseDeliveryMedium(body)
			if err != nil {
				return true, err
			}
			e.DeliveryMedium = m
			return true, nil
		case 23:
			return true, getEnum(d, &e.EventType)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func encodeContinuationToken(t *types.EventContinuationToken) []byte {
	var b []byte
	b = appendString(b, 1, string(t.EventID))
	b = appendBytes(b, 2, t.StorageToken)
	b = appendInt64(b, 3, t.EventTimestamp)
	return b
}

func parseContinuationToken(raw []byte) (*types.EventContinuationToken, error) {
	t := new(types.EventContinuationToken)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			var s string
			if err := d.getString(&s); err != nil {
				return true, err
			}
			t.EventID = types.EventID(s)
			return true, nil
		case 2:
			return true, d.getBytes(&t.StorageToken)
		case 3:
			return true, d.getInt64(&t.EventTimestamp)
		}
		return false, nil
	})
	return t, err
}

func encodeUserReadState(r *types.UserReadState) []byte {
	var b []byte
	b = appendUserID(b, 1, r.ParticipantID)
	b = appendInt64(b, 2, r.LatestReadTimestamp)
	return b
}

func parseUserReadState(raw []byte) (*types.UserReadState, error) {
	r := new(types.UserReadState)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			u, err := parseUserID(body)
			if err != nil {
				return true, err
			}
			r.ParticipantID = u
			return true, nil
		case 2:
			return true, d.getInt64(&r.LatestReadTimestamp)
		}
		return false, nil
	})
	return r, err
}

func encodeUserConversationState(s *types.UserConversationState) []byte {
	var b []byte
	if s.SelfReadState != nil {
		b = appendMsg(b, 7, encodeUserReadState(s.SelfReadState))
	}
	b = appendEnum(b, 9, s.NotificationLevel)
	for _, v := range s.Views {
		b = appendEnum(b, 10, v)
	}
	return b
}

func parseUserConversationState(raw []byte) (*types.UserConversationState, error) {
	s := new(types.UserConversationState)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 7:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			r, err := parseUserReadState(body)
			if err != nil {
				return true, err
			}
			s.SelfReadState = r
			return true, nil
		case 9:
			return true, getEnum(d, &s.NotificationLevel)
		case 10:
			var v types.ConversationView
			if err := getEnum(d, &v); err != nil {
				return true, err
			}
			s.Views = append(s.Views, v)
			return true, nil
		}
		return false, nil
	})
	return s, err
}

// EncodeConversation encodes a conversation metadata snapshot.
func EncodeConversation(c *types.Conversation) []byte {
	var b []byte
	b = appendConvID(b, 1, c.ConversationID)
	b = appendEnum(b, 2, c.Type)
	b = appendString(b, 3, c.Name)
	if c.SelfState != nil {
		b = appendMsg(b, 4, encodeUserConversationState(c.SelfState))
	}
	for _, r := range c.ReadStates {
		b = appendMsg(b, 8, encodeUserReadState(r))
	}
	b = appendEnum(b, 9, c.OTRStatus)
	for _, p := range c.CurrentParticipants {
		b = appendMsg(b, 13, encodeUserID(p))
	}
	for _, pd := range c.ParticipantData {
		var pb []byte
		pb = appendUserID(pb, 1, pd.ID)
		pb = appendString(pb, 2, pd.FallbackName)
		b = appendMsg(b, 14, pb)
	}
	return b
}

// DecodeConversation decodes a conversation metadata snapshot.
func DecodeConversation(raw []byte) (*types.Conversation, error) {
	c := new(types.Conversation)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			id, err := parseConvID(body)
			if err != nil {
				return true, err
			}
			c.ConversationID = id
			return true, nil
		case 2:
			return true, getEnum(d, &c.Type)
		case 3:
			return true, d.getString(&c.Name)
		case 4:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			s, err := parseUserConversationState(body)
			if err != nil {
				return true, err
			}
			c.SelfState = s
			return true, nil
		case 8:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			r, err := parseUserReadState(body)
			if err != nil {
				return true, err
			}
			c.ReadStates = append(c.ReadStates, r)
			return true, nil
		case 9:
			return true, getEnum(d, &c.OTRStatus)
		case 13:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			u, err := parseUserID(body)
			if err != nil {
				return true, err
			}
			c.CurrentParticipants = append(c.CurrentParticipants, u)
			return true, nil
		case 14:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			pd := new(types.ConversationParticipantData)
			err = parseFields(body, func(d *dec) (bool, error) {
				switch d.num {
				case 1:
					inner, ok, err := d.bytes()
					if err != nil || !ok {
						return true, err
					}
					u, err := parseUserID(inner)
					if err != nil {
						return true, err
					}
					pd.ID = u
					return true, nil
				case 2:
					return true, d.getString(&pd.FallbackName)
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			c.ParticipantData = append(c.ParticipantData, pd)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// EncodeConversationState encodes a conversation snapshot with its
// event window and continuation token.
func EncodeConversationState(s *types.ConversationState) []byte {
	var b []byte
	b = appendConvID(b, 1, s.ConversationID)
	if s.Conversation != nil {
		b = appendMsg(b, 2, EncodeConversation(s.Conversation))
	}
	for _, e := range s.Events {
		b = appendMsg(b, 3, EncodeEvent(e))
	}
	if s.EventContinuationToken != nil {
		b = appendMsg(b, 5, encodeContinuationToken(s.EventContinuationToken))
	}
	return b
}

// DecodeConversationState decodes a conversation snapshot with its
// event window and continuation token.
func DecodeConversationState(raw []byte) (*types.ConversationState, error) {
	s := new(types.ConversationState)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			id, err := parseConvID(body)
			if err != nil {
				return true, err
			}
			s.ConversationID = id
			return true, nil
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			c, err := DecodeConversation(body)
			if err != nil {
				return true, err
			}
			s.Conversation = c
			return true, nil
		case 3:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			e, err := DecodeEvent(body)
			if err != nil {
				return true, err
			}
			s.Events = append(s.Events, e)
			return true, nil
		case 5:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			t, err := parseContinuationToken(body)
			if err != nil {
				return true, err
			}
			s.EventContinuationToken = t
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func encodeDeleteAction(a *types.DeleteAction) []byte {
	var b []byte
	b = appendInt64(b, 1, a.DeleteActionTimestamp)
	b = appendInt64(b, 2, a.DeleteUpperBoundTimestamp)
	b = appendEnum(b, 3, a.DeleteType)
	return b
}

func parseDeleteAction(raw []byte) (*types.DeleteAction, error) {
	a := new(types.DeleteAction)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, d.getInt64(&a.DeleteActionTimestamp)
		case 2:
			return true, d.getInt64(&a.DeleteUpperBoundTimestamp)
		case 3:
			return true, getEnum(d, &a.DeleteType)
		}
		return false, nil
	})
	return a, err
}

func encodePresence(p *types.Presence) []byte {
	var b []byte
	b = appendBoolPtr(b, 1, p.Reachable)
	b = appendBoolPtr(b, 2, p.Available)
	return b
}

func parsePresence(raw []byte) (*types.Presence, error) {
	p := new(types.Presence)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, d.getBoolPtr(&p.Reachable)
		case 2:
			return true, d.getBoolPtr(&p.Available)
		}
		return false, nil
	})
	return p, err
}

func encodePresenceResult(r *types.PresenceResult) []byte {
	var b []byte
	b = appendUserID(b, 1, r.UserID)
	if r.Presence != nil {
		b = appendMsg(b, 2, encodePresence(r.Presence))
	}
	return b
}

func parsePresenceResult(raw []byte) (*types.PresenceResult, error) {
	r := new(types.PresenceResult)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			u, err := parseUserID(body)
			if err != nil {
				return true, err
			}
			r.UserID = u
			return true, nil
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			p, err := parsePresence(body)
			if err != nil {
				return true, err
			}
			r.Presence = p
			return true, nil
		}
		return false, nil
	})
	return r, err
}

func encodeEntity(e *types.Entity) []byte {
	var b []byte
	b = appendUserID(b, 1, e.ID)
	if e.Properties != nil {
		var pb []byte
		pb = appendString(pb, 1, e.Properties.DisplayName)
		pb = appendString(pb, 2, e.Properties.PhotoURL)
		for _, em := range e.Properties.Emails {
			pb = appendString(pb, 3, em)
		}
		b = appendMsg(b, 2, pb)
	}
	return b
}

func parseEntity(raw []byte) (*types.Entity, error) {
	e := new(types.Entity)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			u, err := parseUserID(body)
			if err != nil {
				return true, err
			}
			e.ID = u
			return true, nil
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			p := new(types.EntityProperties)
			err = parseFields(body, func(d *dec) (bool, error) {
				switch d.num {
				case 1:
					return true, d.getString(&p.DisplayName)
				case 2:
					return true, d.getString(&p.PhotoURL)
				case 3:
					var s string
					if err := d.getString(&s); err != nil {
						return true, err
					}
					p.Emails = append(p.Emails, s)
					return true, nil
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			e.Properties = p
			return true, nil
		}
		return false, nil
	})
	return e, err
}

func encodeDNDSetting(s *types.DoNotDisturbSetting) []byte {
	var b []byte
	b = appendBoolPtr(b, 1, s.DoNotDisturb)
	b = appendInt64(b, 2, s.ExpirationTimestamp)
	b = appendInt64(b, 3, s.Version)
	return b
}

func parseDNDSetting(raw []byte) (*types.DoNotDisturbSetting, error) {
	s := new(types.DoNotDisturbSetting)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, d.getBoolPtr(&s.DoNotDisturb)
		case 2:
			return true, d.getInt64(&s.ExpirationTimestamp)
		case 3:
			return true, d.getInt64(&s.Version)
		}
		return false, nil
	})
	return s, err
}
