package wire

import (
	"github.com/parley-im/parley/types"
)

// Request and response messages. Every request carries a RequestHeader
// at field 1 and every response a ResponseHeader at field 1.

func encodeRequestHeader(h *types.RequestHeader) []byte {
	var b []byte
	if h.ClientVersion != nil {
		b = appendMsg(b, 1, appendString(nil, 1, h.ClientVersion.MajorVersion))
	}
	if h.ClientIdentifier != nil {
		b = appendMsg(b, 2, appendString(nil, 1, h.ClientIdentifier.Resource))
	}
	b = appendString(b, 4, h.LanguageCode)
	return b
}

func parseRequestHeader(raw []byte) (*types.RequestHeader, error) {
	h := new(types.RequestHeader)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			cv := new(types.ClientVersion)
			err = parseFields(body, func(d *dec) (bool, error) {
				if d.num == 1 {
					return true, d.getString(&cv.MajorVersion)
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			h.ClientVersion = cv
			return true, nil
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			ci := new(types.ClientIdentifier)
			err = parseFields(body, func(d *dec) (bool, error) {
				if d.num == 1 {
					return true, d.getString(&ci.Resource)
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			h.ClientIdentifier = ci
			return true, nil
		case 4:
			return true, d.getString(&h.LanguageCode)
		}
		return false, nil
	})
	return h, err
}

func encodeResponseHeader(h *types.ResponseHeader) []byte {
	var b []byte
	b = appendEnum(b, 1, h.Status)
	b = appendString(b, 2, h.ErrorDescription)
	b = appendString(b, 3, h.DebugURL)
	b = appendString(b, 4, h.RequestTraceID)
	b = appendInt64(b, 5, h.CurrentServerTime)
	return b
}

func parseResponseHeader(raw []byte) (*types.ResponseHeader, error) {
	h := new(types.ResponseHeader)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, getEnum(d, &h.Status)
		case 2:
			return true, d.getString(&h.ErrorDescription)
		case 3:
			return true, d.getString(&h.DebugURL)
		case 4:
			return true, d.getString(&h.RequestTraceID)
		case 5:
			return true, d.getInt64(&h.CurrentServerTime)
		}
		return false, nil
	})
	return h, err
}

func encodeEventRequestHeader(h *types.EventRequestHeader) []byte {
	var b []byte
	b = appendConvID(b, 1, h.ConversationID)
	b = appendUint64(b, 2, h.ClientGeneratedID)
	b = appendEnum(b, 3, h.ExpectedOTR)
	if h.DeliveryMedium != nil {
		b = appendMsg(b, 4, encodeDeliveryMedium(h.DeliveryMedium))
	}
	b = appendEnum(b, 5, h.EventType)
	return b
}

func parseEventRequestHeader(raw []byte) (*types.EventRequestHeader, error) {
	h := new(types.EventRequestHeader)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeConvIDField(d, &h.ConversationID)
		case 2:
			return true, d.getUint64(&h.ClientGeneratedID)
		case 3:
			return true, getEnum(d, &h.ExpectedOTR)
		case 4:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			m, err := parseDeliveryMedium(body)
			if err != nil {
				return true, err
			}
			h.DeliveryMedium = m
			return true, nil
		case 5:
			return true, getEnum(d, &h.EventType)
		}
		return false, nil
	})
	return h, err
}

// Field decode helpers shared by the response parsers.

func decodeRequestHeaderField(d *dec, dst **types.RequestHeader) error {
	body, ok, err := d.bytes()
	if err != nil || !ok {
		return err
	}
	h, err := parseRequestHeader(body)
	if err != nil {
		return err
	}
	*dst = h
	return nil
}

func decodeResponseHeaderField(d *dec, dst **types.ResponseHeader) error {
	body, ok, err := d.bytes()
	if err != nil || !ok {
		return err
	}
	h, err := parseResponseHeader(body)
	if err != nil {
		return err
	}
	*dst = h
	return nil
}

func decodeEventField(d *dec, dst **types.Event) error {
	body, ok, err := d.bytes()
	if err != nil || !ok {
		return err
	}
	e, err := DecodeEvent(body)
	if err != nil {
		return err
	}
	*dst = e
	return nil
}

func decodeConvStateField(d *dec, dst **types.ConversationState) error {
	body, ok, err := d.bytes()
	if err != nil || !ok {
		return err
	}
	s, err := DecodeConversationState(body)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

// --- syncallnewevents ---

// EncodeSyncAllNewEventsRequest encodes a catch-up sync request.
func EncodeSyncAllNewEventsRequest(r *types.SyncAllNewEventsRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendInt64(b, 2, r.LastSyncTimestamp)
	b = appendInt64(b, 8, r.MaxResponseSizeBytes)
	return b
}

// DecodeSyncAllNewEventsRequest decodes a catch-up sync request.
func DecodeSyncAllNewEventsRequest(raw []byte) (*types.SyncAllNewEventsRequest, error) {
	r := new(types.SyncAllNewEventsRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			return true, d.getInt64(&r.LastSyncTimestamp)
		case 8:
			return true, d.getInt64(&r.MaxResponseSizeBytes)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeSyncAllNewEventsResponse encodes a catch-up sync response.
func EncodeSyncAllNewEventsResponse(r *types.SyncAllNewEventsResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	b = appendInt64(b, 2, r.SyncTimestamp)
	for _, s := range r.ConversationStates {
		b = appendMsg(b, 3, EncodeConversationState(s))
	}
	return b
}

// DecodeSyncAllNewEventsResponse decodes a catch-up sync response.
func DecodeSyncAllNewEventsResponse(raw []byte) (*types.SyncAllNewEventsResponse, error) {
	r := new(types.SyncAllNewEventsResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			return true, d.getInt64(&r.SyncTimestamp)
		case 3:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			s, err := DecodeConversationState(body)
			if err != nil {
				return true, err
			}
			r.ConversationStates = append(r.ConversationStates, s)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- syncrecentconversations ---

// EncodeSyncRecentConversationsRequest encodes a bootstrap sync request.
func EncodeSyncRecentConversationsRequest(r *types.SyncRecentConversationsRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendInt64(b, 3, int64(r.MaxConversations))
	b = appendInt64(b, 4, int64(r.MaxEventsPerConversation))
	for _, f := range r.SyncFilters {
		b = appendEnum(b, 5, f)
	}
	return b
}

// DecodeSyncRecentConversationsRequest decodes a bootstrap sync request.
func DecodeSyncRecentConversationsRequest(raw []byte) (*types.SyncRecentConversationsRequest, error) {
	r := new(types.SyncRecentConversationsRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 3:
			var v int32
			if err := d.getInt32(&v); err != nil {
				return true, err
			}
			r.MaxConversations = v
			return true, nil
		case 4:
			var v int32
			if err := d.getInt32(&v); err != nil {
				return true, err
			}
			r.MaxEventsPerConversation = v
			return true, nil
		case 5:
			var f types.SyncFilter
			if err := getEnum(d, &f); err != nil {
				return true, err
			}
			r.SyncFilters = append(r.SyncFilters, f)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeSyncRecentConversationsResponse encodes a bootstrap sync
// response.
func EncodeSyncRecentConversationsResponse(r *types.SyncRecentConversationsResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	b = appendInt64(b, 2, r.SyncTimestamp)
	for _, s := range r.ConversationStates {
		b = appendMsg(b, 3, EncodeConversationState(s))
	}
	return b
}

// DecodeSyncRecentConversationsResponse decodes a bootstrap sync
// response.
func DecodeSyncRecentConversationsResponse(raw []byte) (*types.SyncRecentConversationsResponse, error) {
	r := new(types.SyncRecentConversationsResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			return true, d.getInt64(&r.SyncTimestamp)
		case 3:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			s, err := DecodeConversationState(body)
			if err != nil {
				return true, err
			}
			r.ConversationStates = append(r.ConversationStates, s)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- getconversation ---

// EncodeGetConversationRequest encodes a conversation fetch request.
func EncodeGetConversationRequest(r *types.GetConversationRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	if r.ConversationSpec != nil {
		b = appendMsg(b, 2, appendConvID(nil, 1, r.ConversationSpec.ConversationID))
	}
	b = appendBool(b, 4, r.IncludeEvents)
	b = appendInt64(b, 6, int64(r.MaxEventsPerConversation))
	if r.EventContinuationToken != nil {
		b = appendMsg(b, 7, encodeContinuationToken(r.EventContinuationToken))
	}
	return b
}

// DecodeGetConversationRequest decodes a conversation fetch request.
func DecodeGetConversationRequest(raw []byte) (*types.GetConversationRequest, error) {
	r := new(types.GetConversationRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			spec := new(types.ConversationSpec)
			err = parseFields(body, func(d *dec) (bool, error) {
				if d.num == 1 {
					return true, decodeConvIDField(d, &spec.ConversationID)
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			r.ConversationSpec = spec
			return true, nil
		case 4:
			return true, d.getBool(&r.IncludeEvents)
		case 6:
			var v int32
			if err := d.getInt32(&v); err != nil {
				return true, err
			}
			r.MaxEventsPerConversation = v
			return true, nil
		case 7:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			t, err := parseContinuationToken(body)
			if err != nil {
				return true, err
			}
			r.EventContinuationToken = t
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeGetConversationResponse encodes a conversation fetch response.
func EncodeGetConversationResponse(r *types.GetConversationResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	if r.ConversationState != nil {
		b = appendMsg(b, 2, EncodeConversationState(r.ConversationState))
	}
	return b
}

// DecodeGetConversationResponse decodes a conversation fetch response.
func DecodeGetConversationResponse(raw []byte) (*types.GetConversationResponse, error) {
	r := new(types.GetConversationResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			return true, decodeConvStateField(d, &r.ConversationState)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- sendchatmessage ---

// EncodeSendChatMessageRequest encodes a send-message request.
func EncodeSendChatMessageRequest(r *types.SendChatMessageRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	if r.EventRequestHeader != nil {
		b = appendMsg(b, 2, encodeEventRequestHeader(r.EventRequestHeader))
	}
	if r.MessageContent != nil {
		b = appendMsg(b, 3, encodeMessageContent(r.MessageContent))
	}
	return b
}

// DecodeSendChatMessageRequest decodes a send-message request.
func DecodeSendChatMessageRequest(raw []byte) (*types.SendChatMessageRequest, error) {
	r := new(types.SendChatMessageRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			h, err := parseEventRequestHeader(body)
			if err != nil {
				return true, err
			}
			r.EventRequestHeader = h
			return true, nil
		case 3:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			m, err := parseMessageContent(body)
			if err != nil {
				return true, err
			}
			r.MessageContent = m
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeSendChatMessageResponse encodes a send-message response.
func EncodeSendChatMessageResponse(r *types.SendChatMessageResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	if r.CreatedEvent != nil {
		b = appendMsg(b, 6, EncodeEvent(r.CreatedEvent))
	}
	return b
}

// DecodeSendChatMessageResponse decodes a send-message response.
func DecodeSendChatMessageResponse(raw []byte) (*types.SendChatMessageResponse, error) {
	r := new(types.SendChatMessageResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 6:
			return true, decodeEventField(d, &r.CreatedEvent)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- updatewatermark ---

// EncodeUpdateWatermarkRequest encodes a watermark update request.
func EncodeUpdateWatermarkRequest(r *types.UpdateWatermarkRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendConvID(b, 2, r.ConversationID)
	b = appendInt64(b, 3, r.LastReadTimestamp)
	return b
}

// DecodeUpdateWatermarkRequest decodes a watermark update request.
func DecodeUpdateWatermarkRequest(raw []byte) (*types.UpdateWatermarkRequest, error) {
	r := new(types.UpdateWatermarkRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			return true, decodeConvIDField(d, &r.ConversationID)
		case 3:
			return true, d.getInt64(&r.LastReadTimestamp)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeUpdateWatermarkResponse encodes a watermark update response.
func EncodeUpdateWatermarkResponse(r *types.UpdateWatermarkResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	return b
}

// DecodeUpdateWatermarkResponse decodes a watermark update response.
func DecodeUpdateWatermarkResponse(raw []byte) (*types.UpdateWatermarkResponse, error) {
	r := new(types.UpdateWatermarkResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- settyping ---

// EncodeSetTypingRequest encodes a typing state request.
func EncodeSetTypingRequest(r *types.SetTypingRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendConvID(b, 2, r.ConversationID)
	b = appendEnum(b, 3, r.Type)
	return b
}

// DecodeSetTypingRequest decodes a typing state request.
func DecodeSetTypingRequest(raw []byte) (*types.SetTypingRequest, error) {
	r := new(types.SetTypingRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			return true, decodeConvIDField(d, &r.ConversationID)
		case 3:
			return true, getEnum(d, &r.Type)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeSetTypingResponse encodes a typing state response.
func EncodeSetTypingResponse(r *types.SetTypingResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	b = appendInt64(b, 2, r.Timestamp)
	return b
}

// DecodeSetTypingResponse decodes a typing state response.
func DecodeSetTypingResponse(raw []byte) (*types.SetTypingResponse, error) {
	r := new(types.SetTypingResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			return true, d.getInt64(&r.Timestamp)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- setfocus ---

// EncodeSetFocusRequest encodes a focus request.
func EncodeSetFocusRequest(r *types.SetFocusRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendConvID(b, 2, r.ConversationID)
	b = appendEnum(b, 3, r.Type)
	b = appendInt64(b, 4, r.TimeoutSecs)
	return b
}

// DecodeSetFocusRequest decodes a focus request.
func DecodeSetFocusRequest(raw []byte) (*types.SetFocusRequest, error) {
	r := new(types.SetFocusRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			return true, decodeConvIDField(d, &r.ConversationID)
		case 3:
			return true, getEnum(d, &r.Type)
		case 4:
			return true, d.getInt64(&r.TimeoutSecs)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeSetFocusResponse encodes a focus response.
func EncodeSetFocusResponse(r *types.SetFocusResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	b = appendInt64(b, 2, r.Timestamp)
	return b
}

// DecodeSetFocusResponse decodes a focus response.
func DecodeSetFocusResponse(raw []byte) (*types.SetFocusResponse, error) {
	r := new(types.SetFocusResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			return true, d.getInt64(&r.Timestamp)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- setpresence ---

// EncodeSetPresenceRequest encodes a presence request.
func EncodeSetPresenceRequest(r *types.SetPresenceRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	if r.PresenceStateSetting != nil {
		var pb []byte
		pb = appendInt64(pb, 1, r.PresenceStateSetting.TimeoutSecs)
		pb = appendEnum(pb, 2, r.PresenceStateSetting.Type)
		b = appendMsg(b, 2, pb)
	}
	if r.MoodMessage != nil {
		b = appendMsg(b, 3, encodeMessageContent(r.MoodMessage))
	}
	return b
}

// DecodeSetPresenceRequest decodes a presence request.
func DecodeSetPresenceRequest(raw []byte) (*types.SetPresenceRequest, error) {
	r := new(types.SetPresenceRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			s := new(types.PresenceStateSetting)
			err = parseFields(body, func(d *dec) (bool, error) {
				switch d.num {
				case 1:
					return true, d.getInt64(&s.TimeoutSecs)
				case 2:
					return true, getEnum(d, &s.Type)
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			r.PresenceStateSetting = s
			return true, nil
		case 3:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			m, err := parseMessageContent(body)
			if err != nil {
				return true, err
			}
			r.MoodMessage = m
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeSetPresenceResponse encodes a presence response.
func EncodeSetPresenceResponse(r *types.SetPresenceResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	return b
}

// DecodeSetPresenceResponse decodes a presence response.
func DecodeSetPresenceResponse(raw []byte) (*types.SetPresenceResponse, error) {
	r := new(types.SetPresenceResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- querypresence ---

// EncodeQueryPresenceRequest encodes a presence query.
func EncodeQueryPresenceRequest(r *types.QueryPresenceRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	for _, p := range r.ParticipantIDs {
		b = appendMsg(b, 2, encodeUserID(p))
	}
	for _, m := range r.FieldMasks {
		b = appendEnum(b, 3, m)
	}
	return b
}

// DecodeQueryPresenceRequest decodes a presence query.
func DecodeQueryPresenceRequest(raw []byte) (*types.QueryPresenceRequest, error) {
	r := new(types.QueryPresenceRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			u, err := parseUserID(body)
			if err != nil {
				return true, err
			}
			r.ParticipantIDs = append(r.ParticipantIDs, u)
			return true, nil
		case 3:
			var m types.PresenceFieldMask
			if err := getEnum(d, &m); err != nil {
				return true, err
			}
			r.FieldMasks = append(r.FieldMasks, m)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeQueryPresenceResponse encodes a presence query response.
func EncodeQueryPresenceResponse(r *types.QueryPresenceResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	for _, p := range r.Presence {
		b = appendMsg(b, 2, encodePresenceResult(p))
	}
	return b
}

// DecodeQueryPresenceResponse decodes a presence query response.
func DecodeQueryPresenceResponse(raw []byte) (*types.QueryPresenceResponse, error) {
	r := new(types.QueryPresenceResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			p, err := parsePresenceResult(body)
			if err != nil {
				return true, err
			}
			r.Presence = append(r.Presence, p)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- setactiveclient ---

// EncodeSetActiveClientRequest encodes an active client request.
func EncodeSetActiveClientRequest(r *types.SetActiveClientRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendBool(b, 2, r.IsActive)
	b = appendString(b, 3, r.FullJID)
	b = appendInt64(b, 4, r.TimeoutSecs)
	return b
}

// DecodeSetActiveClientRequest decodes an active client request.
func DecodeSetActiveClientRequest(raw []byte) (*types.SetActiveClientRequest, error) {
	r := new(types.SetActiveClientRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			return true, d.getBool(&r.IsActive)
		case 3:
			return true, d.getString(&r.FullJID)
		case 4:
			return true, d.getInt64(&r.TimeoutSecs)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeSetActiveClientResponse encodes an active client response.
func EncodeSetActiveClientResponse(r *types.SetActiveClientResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	return b
}

// DecodeSetActiveClientResponse decodes an active client response.
func DecodeSetActiveClientResponse(raw []byte) (*types.SetActiveClientResponse, error) {
	r := new(types.SetActiveClientResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- createconversation ---

func encodeInviteeID(i *types.InviteeID) []byte {
	var b []byte
	b = appendString(b, 1, i.GaiaID)
	b = appendString(b, 2, i.FallbackName)
	return b
}

func parseInviteeID(raw []byte) (*types.InviteeID, error) {
	i := new(types.InviteeID)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, d.getString(&i.GaiaID)
		case 2:
			return true, d.getString(&i.FallbackName)
		}
		return false, nil
	})
	return i, err
}

// EncodeCreateConversationRequest encodes a create request.
func EncodeCreateConversationRequest(r *types.CreateConversationRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendEnum(b, 2, r.Type)
	b = appendUint64(b, 3, r.ClientGeneratedID)
	for _, i := range r.InviteeIDs {
		b = appendMsg(b, 4, encodeInviteeID(i))
	}
	return b
}

// DecodeCreateConversationRequest decodes a create request.
func DecodeCreateConversationRequest(raw []byte) (*types.CreateConversationRequest, error) {
	r := new(types.CreateConversationRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			return true, getEnum(d, &r.Type)
		case 3:
			return true, d.getUint64(&r.ClientGeneratedID)
		case 4:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			i, err := parseInviteeID(body)
			if err != nil {
				return true, err
			}
			r.InviteeIDs = append(r.InviteeIDs, i)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeCreateConversationResponse encodes a create response.
func EncodeCreateConversationResponse(r *types.CreateConversationResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	if r.ConversationState != nil {
		b = appendMsg(b, 2, EncodeConversationState(r.ConversationState))
	}
	b = appendBool(b, 3, r.NewConversationCreated)
	return b
}

// DecodeCreateConversationResponse decodes a create response.
func DecodeCreateConversationResponse(raw []byte) (*types.CreateConversationResponse, error) {
	r := new(types.CreateConversationResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			return true, decodeConvStateField(d, &r.ConversationState)
		case 3:
			return true, d.getBool(&r.NewConversationCreated)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- adduser / removeuser / renameconversation ---

// EncodeAddUserRequest encodes an invite request.
func EncodeAddUserRequest(r *types.AddUserRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	if r.EventRequestHeader != nil {
		b = appendMsg(b, 2, encodeEventRequestHeader(r.EventRequestHeader))
	}
	for _, i := range r.InviteeIDs {
		b = appendMsg(b, 3, encodeInviteeID(i))
	}
	return b
}

// DecodeAddUserRequest decodes an invite request.
func DecodeAddUserRequest(raw []byte) (*types.AddUserRequest, error) {
	r := new(types.AddUserRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			h, err := parseEventRequestHeader(body)
			if err != nil {
				return true, err
			}
			r.EventRequestHeader = h
			return true, nil
		case 3:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			i, err := parseInviteeID(body)
			if err != nil {
				return true, err
			}
			r.InviteeIDs = append(r.InviteeIDs, i)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeAddUserResponse encodes an invite response.
func EncodeAddUserResponse(r *types.AddUserResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	if r.CreatedEvent != nil {
		b = appendMsg(b, 2, EncodeEvent(r.CreatedEvent))
	}
	return b
}

// DecodeAddUserResponse decodes an invite response.
func DecodeAddUserResponse(raw []byte) (*types.AddUserResponse, error) {
	r := new(types.AddUserResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			return true, decodeEventField(d, &r.CreatedEvent)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeRemoveUserRequest encodes a leave request.
func EncodeRemoveUserRequest(r *types.RemoveUserRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	if r.EventRequestHeader != nil {
		b = appendMsg(b, 2, encodeEventRequestHeader(r.EventRequestHeader))
	}
	return b
}

// DecodeRemoveUserRequest decodes a leave request.
func DecodeRemoveUserRequest(raw []byte) (*types.RemoveUserRequest, error) {
	r := new(types.RemoveUserRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			h, err := parseEventRequestHeader(body)
			if err != nil {
				return true, err
			}
			r.EventRequestHeader = h
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeRemoveUserResponse encodes a leave response.
func EncodeRemoveUserResponse(r *types.RemoveUserResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	if r.CreatedEvent != nil {
		b = appendMsg(b, 2, EncodeEvent(r.CreatedEvent))
	}
	return b
}

// DecodeRemoveUserResponse decodes a leave response.
func DecodeRemoveUserResponse(raw []byte) (*types.RemoveUserResponse, error) {
	r := new(types.RemoveUserResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			return true, decodeEventField(d, &r.CreatedEvent)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeRenameConversationRequest encodes a rename request.
func EncodeRenameConversationRequest(r *types.RenameConversationRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	if r.EventRequestHeader != nil {
		b = appendMsg(b, 2, encodeEventRequestHeader(r.EventRequestHeader))
	}
	b = appendString(b, 3, r.NewName)
	return b
}

// DecodeRenameConversationRequest decodes a rename request.
func DecodeRenameConversationRequest(raw []byte) (*types.RenameConversationRequest, error) {
	r := new(types.RenameConversationRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			h, err := parseEventRequestHeader(body)
			if err != nil {
				return true, err
			}
			r.EventRequestHeader = h
			return true, nil
		case 3:
			return true, d.getString(&r.NewName)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeRenameConversationResponse encodes a rename response.
func EncodeRenameConversationResponse(r *types.RenameConversationResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	if r.CreatedEvent != nil {
		b = appendMsg(b, 2, EncodeEvent(r.CreatedEvent))
	}
	return b
}

// DecodeRenameConversationResponse decodes a rename response.
func DecodeRenameConversationResponse(raw []byte) (*types.RenameConversationResponse, error) {
	r := new(types.RenameConversationResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			return true, decodeEventField(d, &r.CreatedEvent)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- deleteconversation ---

// EncodeDeleteConversationRequest encodes a history delete request.
func EncodeDeleteConversationRequest(r *types.DeleteConversationRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendConvID(b, 2, r.ConversationID)
	b = appendInt64(b, 3, r.DeleteUpperBoundTimestamp)
	return b
}

// DecodeDeleteConversationRequest decodes a history delete request.
func DecodeDeleteConversationRequest(raw []byte) (*types.DeleteConversationRequest, error) {
	r := new(types.DeleteConversationRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			return true, decodeConvIDField(d, &r.ConversationID)
		case 3:
			return true, d.getInt64(&r.DeleteUpperBoundTimestamp)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeDeleteConversationResponse encodes a history delete response.
func EncodeDeleteConversationResponse(r *types.DeleteConversationResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	if r.DeleteAction != nil {
		b = appendMsg(b, 2, encodeDeleteAction(r.DeleteAction))
	}
	return b
}

// DecodeDeleteConversationResponse decodes a history delete response.
func DecodeDeleteConversationResponse(raw []byte) (*types.DeleteConversationResponse, error) {
	r := new(types.DeleteConversationResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			a, err := parseDeleteAction(body)
			if err != nil {
				return true, err
			}
			r.DeleteAction = a
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- setconversationnotificationlevel ---

// EncodeSetNotificationLevelRequest encodes a ring setting request.
func EncodeSetNotificationLevelRequest(r *types.SetNotificationLevelRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendConvID(b, 2, r.ConversationID)
	b = appendEnum(b, 3, r.Level)
	return b
}

// DecodeSetNotificationLevelRequest decodes a ring setting request.
func DecodeSetNotificationLevelRequest(raw []byte) (*types.SetNotificationLevelRequest, error) {
	r := new(types.SetNotificationLevelRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			return true, decodeConvIDField(d, &r.ConversationID)
		case 3:
			return true, getEnum(d, &r.Level)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeSetNotificationLevelResponse encodes a ring setting response.
func EncodeSetNotificationLevelResponse(r *types.SetNotificationLevelResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	return b
}

// DecodeSetNotificationLevelResponse decodes a ring setting response.
func DecodeSetNotificationLevelResponse(raw []byte) (*types.SetNotificationLevelResponse, error) {
	r := new(types.SetNotificationLevelResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- easteregg ---

// EncodeEasterEggRequest encodes an easter egg request.
func EncodeEasterEggRequest(r *types.EasterEggRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendConvID(b, 2, r.ConversationID)
	if r.EasterEgg != nil {
		b = appendMsg(b, 3, appendString(nil, 1, r.EasterEgg.Message))
	}
	return b
}

// DecodeEasterEggRequest decodes an easter egg request.
func DecodeEasterEggRequest(raw []byte) (*types.EasterEggRequest, error) {
	r := new(types.EasterEggRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 2:
			return true, decodeConvIDField(d, &r.ConversationID)
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
			r.EasterEgg = egg
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeEasterEggResponse encodes an easter egg response.
func EncodeEasterEggResponse(r *types.EasterEggResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	return b
}

// DecodeEasterEggResponse decodes an easter egg response.
func DecodeEasterEggResponse(raw []byte) (*types.EasterEggResponse, error) {
	r := new(types.EasterEggResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- getselfinfo / getentitybyid / searchentities ---

// EncodeGetSelfInfoRequest encodes a self info request.
func EncodeGetSelfInfoRequest(r *types.GetSelfInfoRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	return b
}

// DecodeGetSelfInfoRequest decodes a self info request.
func DecodeGetSelfInfoRequest(raw []byte) (*types.GetSelfInfoRequest, error) {
	r := new(types.GetSelfInfoRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		if d.num == 1 {
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeGetSelfInfoResponse encodes a self info response.
func EncodeGetSelfInfoResponse(r *types.GetSelfInfoResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	if r.SelfEntity != nil {
		b = appendMsg(b, 2, encodeEntity(r.SelfEntity))
	}
	return b
}

// DecodeGetSelfInfoResponse decodes a self info response.
func DecodeGetSelfInfoResponse(raw []byte) (*types.GetSelfInfoResponse, error) {
	r := new(types.GetSelfInfoResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			e, err := parseEntity(body)
			if err != nil {
				return true, err
			}
			r.SelfEntity = e
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeGetEntityByIDRequest encodes a directory lookup request.
func EncodeGetEntityByIDRequest(r *types.GetEntityByIDRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	for _, s := range r.BatchLookupSpecs {
		var sb []byte
		sb = appendString(sb, 1, s.GaiaID)
		sb = appendString(sb, 2, s.ChatID)
		sb = appendString(sb, 3, s.Email)
		b = appendMsg(b, 3, sb)
	}
	return b
}

// DecodeGetEntityByIDRequest decodes a directory lookup request.
func DecodeGetEntityByIDRequest(raw []byte) (*types.GetEntityByIDRequest, error) {
	r := new(types.GetEntityByIDRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 3:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			spec := new(types.EntityLookupSpec)
			err = parseFields(body, func(d *dec) (bool, error) {
				switch d.num {
				case 1:
					return true, d.getString(&spec.GaiaID)
				case 2:
					return true, d.getString(&spec.ChatID)
				case 3:
					return true, d.getString(&spec.Email)
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			r.BatchLookupSpecs = append(r.BatchLookupSpecs, spec)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeGetEntityByIDResponse encodes a directory lookup response.
func EncodeGetEntityByIDResponse(r *types.GetEntityByIDResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	for _, e := range r.Entities {
		b = appendMsg(b, 2, encodeEntity(e))
	}
	return b
}

// DecodeGetEntityByIDResponse decodes a directory lookup response.
func DecodeGetEntityByIDResponse(raw []byte) (*types.GetEntityByIDResponse, error) {
	r := new(types.GetEntityByIDResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			e, err := parseEntity(body)
			if err != nil {
				return true, err
			}
			r.Entities = append(r.Entities, e)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeSearchEntitiesRequest encodes a directory search request.
func EncodeSearchEntitiesRequest(r *types.SearchEntitiesRequest) []byte {
	var b []byte
	if r.RequestHeader != nil {
		b = appendMsg(b, 1, encodeRequestHeader(r.RequestHeader))
	}
	b = appendString(b, 3, r.Query)
	b = appendInt64(b, 4, int64(r.MaxCount))
	return b
}

// DecodeSearchEntitiesRequest decodes a directory search request.
func DecodeSearchEntitiesRequest(raw []byte) (*types.SearchEntitiesRequest, error) {
	r := new(types.SearchEntitiesRequest)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeRequestHeaderField(d, &r.RequestHeader)
		case 3:
			return true, d.getString(&r.Query)
		case 4:
			var v int32
			if err := d.getInt32(&v); err != nil {
				return true, err
			}
			r.MaxCount = v
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeSearchEntitiesResponse encodes a directory search response.
func EncodeSearchEntitiesResponse(r *types.SearchEntitiesResponse) []byte {
	var b []byte
	if r.ResponseHeader != nil {
		b = appendMsg(b, 1, encodeResponseHeader(r.ResponseHeader))
	}
	for _, e := range r.Entities {
		b = appendMsg(b, 2, encodeEntity(e))
	}
	return b
}

// DecodeSearchEntitiesResponse decodes a directory search response.
func DecodeSearchEntitiesResponse(raw []byte) (*types.SearchEntitiesResponse, error) {
	r := new(types.SearchEntitiesResponse)
	err := parseFields(raw, func(d *dec) (bool, error) {
		switch d.num {
		case 1:
			return true, decodeResponseHeaderField(d, &r.ResponseHeader)
		case 2:
			body, ok, err := d.bytes()
			if err != nil || !ok {
				return true, err
			}
			e, err := parseEntity(body)
			if err != nil {
				return true, err
			}
			r.Entities = append(r.Entities, e)
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}
