package client

import (
	"context"
	"fmt"

	"github.com/parley-im/parley/syncer"
	"github.com/parley-im/parley/types"
	"github.com/parley-im/parley/wire"
)

// API endpoint paths, relative to the transport base URL.
const (
	endpointSyncAllNewEvents        = "conversations/syncallnewevents"
	endpointSyncRecentConversations = "conversations/syncrecentconversations"
	endpointGetConversation         = "conversations/getconversation"
	endpointSendChatMessage         = "conversations/sendchatmessage"
	endpointUpdateWatermark         = "conversations/updatewatermark"
	endpointSetTyping               = "conversations/settyping"
	endpointSetFocus                = "conversations/setfocus"
	endpointCreateConversation      = "conversations/createconversation"
	endpointAddUser                 = "conversations/adduser"
	endpointRemoveUser              = "conversations/removeuser"
	endpointRenameConversation      = "conversations/renameconversation"
	endpointDeleteConversation      = "conversations/deleteconversation"
	endpointSetNotificationLevel    = "conversations/setconversationnotificationlevel"
	endpointEasterEgg               = "conversations/easteregg"
	endpointSetPresence             = "presence/setpresence"
	endpointQueryPresence           = "presence/querypresence"
	endpointSetActiveClient         = "clients/setactiveclient"
	endpointGetSelfInfo             = "contacts/getselfinfo"
	endpointGetEntityByID           = "contacts/getentitybyid"
	endpointSearchEntities          = "contacts/searchentities"
)

// call sends one encoded request and returns the raw response body.
func (c *Client) call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	c.collector.IncRequestSent()
	raw, err := c.transport.Do(ctx, endpoint, body)
	if err != nil {
		c.collector.IncRequestFailed()
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	return raw, nil
}

// checked validates a response header, counting server rejections as
// failed requests.
func (c *Client) checked(endpoint string, h *types.ResponseHeader) error {
	if err := syncer.CheckStatus(h); err != nil {
		c.collector.IncRequestFailed()
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	return nil
}

// SyncAllNewEvents fetches events across all conversations since a
// timestamp. Most callers should go through the sync coordinator
// instead.
func (c *Client) SyncAllNewEvents(ctx context.Context, req *types.SyncAllNewEventsRequest) (*types.SyncAllNewEventsResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointSyncAllNewEvents, wire.EncodeSyncAllNewEventsRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeSyncAllNewEventsResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointSyncAllNewEvents, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// SyncRecentConversations fetches the most recently active
// conversations with a tail of events each.
func (c *Client) SyncRecentConversations(ctx context.Context, req *types.SyncRecentConversationsRequest) (*types.SyncRecentConversationsResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointSyncRecentConversations, wire.EncodeSyncRecentConversationsRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeSyncRecentConversationsResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointSyncRecentConversations, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetConversation fetches one conversation's metadata and a page of its
// events.
func (c *Client) GetConversation(ctx context.Context, req *types.GetConversationRequest) (*types.GetConversationResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointGetConversation, wire.EncodeGetConversationRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeGetConversationResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointGetConversation, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// SendChatMessage sends a message event. SendMessage is the high-level
// entry point; this is the raw call.
func (c *Client) SendChatMessage(ctx context.Context, req *types.SendChatMessageRequest) (*types.SendChatMessageResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointSendChatMessage, wire.EncodeSendChatMessageRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeSendChatMessageResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointSendChatMessage, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateWatermark reports the account's read position for a
// conversation.
func (c *Client) UpdateWatermark(ctx context.Context, req *types.UpdateWatermarkRequest) (*types.UpdateWatermarkResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointUpdateWatermark, wire.EncodeUpdateWatermarkRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeUpdateWatermarkResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointUpdateWatermark, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// SetTyping reports the account's typing state in a conversation.
func (c *Client) SetTyping(ctx context.Context, req *types.SetTypingRequest) (*types.SetTypingResponse, error) {
	c.maybeClaimActive(ctx)
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointSetTyping, wire.EncodeSetTypingRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeSetTypingResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointSetTyping, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// SetFocus reports whether the account is looking at a conversation.
func (c *Client) SetFocus(ctx context.Context, req *types.SetFocusRequest) (*types.SetFocusResponse, error) {
	c.maybeClaimActive(ctx)
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointSetFocus, wire.EncodeSetFocusRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeSetFocusResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointSetFocus, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// SetPresence sets the account's advertised presence.
func (c *Client) SetPresence(ctx context.Context, req *types.SetPresenceRequest) (*types.SetPresenceResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointSetPresence, wire.EncodeSetPresenceRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeSetPresenceResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointSetPresence, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// QueryPresence looks up presence for a set of participants.
func (c *Client) QueryPresence(ctx context.Context, req *types.QueryPresenceRequest) (*types.QueryPresenceResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointQueryPresence, wire.EncodeQueryPresenceRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeQueryPresenceResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointQueryPresence, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// SetActiveClient claims or releases the active client lease.
func (c *Client) SetActiveClient(ctx context.Context, req *types.SetActiveClientRequest) (*types.SetActiveClientResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointSetActiveClient, wire.EncodeSetActiveClientRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeSetActiveClientResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointSetActiveClient, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateConversation starts a new one-to-one or group conversation.
func (c *Client) CreateConversation(ctx context.Context, req *types.CreateConversationRequest) (*types.CreateConversationResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	if req.ClientGeneratedID == 0 {
		req.ClientGeneratedID = newClientGeneratedID()
	}
	raw, err := c.call(ctx, endpointCreateConversation, wire.EncodeCreateConversationRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeCreateConversationResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointCreateConversation, resp.ResponseHeader); err != nil {
		return nil, err
	}
	if cs := resp.ConversationState; cs != nil && cs.Conversation != nil {
		c.table.GetOrCreate(cs.ConversationID).Merge(cs.Conversation)
	}
	return resp, nil
}

// AddUser invites participants to a group conversation.
func (c *Client) AddUser(ctx context.Context, req *types.AddUserRequest) (*types.AddUserResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointAddUser, wire.EncodeAddUserRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeAddUserResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointAddUser, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// RemoveUser leaves a group conversation.
func (c *Client) RemoveUser(ctx context.Context, req *types.RemoveUserRequest) (*types.RemoveUserResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointRemoveUser, wire.EncodeRemoveUserRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeRemoveUserResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointRemoveUser, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// RenameConversation changes a conversation's display name.
func (c *Client) RenameConversation(ctx context.Context, req *types.RenameConversationRequest) (*types.RenameConversationResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointRenameConversation, wire.EncodeRenameConversationRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeRenameConversationResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointRenameConversation, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteConversation deletes the account's view of a conversation's
// history. The table entry is dropped; a later event for the same
// conversation recreates it empty.
func (c *Client) DeleteConversation(ctx context.Context, req *types.DeleteConversationRequest) (*types.DeleteConversationResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointDeleteConversation, wire.EncodeDeleteConversationRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeDeleteConversationResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointDeleteConversation, resp.ResponseHeader); err != nil {
		return nil, err
	}
	c.table.Delete(req.ConversationID)
	return resp, nil
}

// SetConversationNotificationLevel mutes or unmutes a conversation.
func (c *Client) SetConversationNotificationLevel(ctx context.Context, req *types.SetNotificationLevelRequest) (*types.SetNotificationLevelResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointSetNotificationLevel, wire.EncodeSetNotificationLevelRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeSetNotificationLevelResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointSetNotificationLevel, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// EasterEgg triggers a server-side easter egg in a conversation.
func (c *Client) EasterEgg(ctx context.Context, req *types.EasterEggRequest) (*types.EasterEggResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointEasterEgg, wire.EncodeEasterEggRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeEasterEggResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointEasterEgg, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetSelfInfo fetches the account's own directory entry and remembers
// its participant id for watermark bookkeeping.
func (c *Client) GetSelfInfo(ctx context.Context) (*types.GetSelfInfoResponse, error) {
	req := &types.GetSelfInfoRequest{RequestHeader: c.requestHeader()}
	raw, err := c.call(ctx, endpointGetSelfInfo, wire.EncodeGetSelfInfoRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeGetSelfInfoResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointGetSelfInfo, resp.ResponseHeader); err != nil {
		return nil, err
	}
	if resp.SelfEntity != nil {
		c.mu.Lock()
		c.selfID = resp.SelfEntity.ID
		c.mu.Unlock()
	}
	return resp, nil
}

// GetEntityByID looks up directory entries for a set of participants.
func (c *Client) GetEntityByID(ctx context.Context, req *types.GetEntityByIDRequest) (*types.GetEntityByIDResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointGetEntityByID, wire.EncodeGetEntityByIDRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeGetEntityByIDResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointGetEntityByID, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}

// SearchEntities searches the directory by name or address prefix.
func (c *Client) SearchEntities(ctx context.Context, req *types.SearchEntitiesRequest) (*types.SearchEntitiesResponse, error) {
	if req.RequestHeader == nil {
		req.RequestHeader = c.requestHeader()
	}
	raw, err := c.call(ctx, endpointSearchEntities, wire.EncodeSearchEntitiesRequest(req))
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeSearchEntitiesResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.checked(endpointSearchEntities, resp.ResponseHeader); err != nil {
		return nil, err
	}
	return resp, nil
}
