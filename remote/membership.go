// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/parlor-foundation/parlor/lib/ref"
)

// Membership is an authenticated handle on one session: the Client
// plus the bearer token, identity, and nickname the authority issued
// at create or join time. Memberships are lightweight and safe for
// concurrent use; the pollers and the UI share one instance.
type Membership struct {
	client    *Client
	sessionID ref.SessionID
	identity  ref.Identity
	nickname  string
	token     string
}

// ListSessions returns the sessions the authority is willing to list.
// This is an unauthenticated endpoint, used by the join screen.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if err := c.getJSON(ctx, "/v1/sessions", "", &sessions); err != nil {
		return nil, fmt.Errorf("remote: list sessions failed: %w", err)
	}
	return sessions, nil
}

// CreateSession creates a session with the caller as host.
func (c *Client) CreateSession(ctx context.Context, request CreateSessionRequest) (*Membership, error) {
	if request.Name == "" {
		return nil, fmt.Errorf("remote: session name is required")
	}
	if request.HostNickname == "" {
		return nil, fmt.Errorf("remote: host nickname is required")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions", "", request)
	if err != nil {
		return nil, fmt.Errorf("remote: create session failed: %w", err)
	}
	return c.membershipFromAuth(body)
}

// JoinSession joins an existing session under the given nickname.
func (c *Client) JoinSession(ctx context.Context, sessionID ref.SessionID, request JoinSessionRequest) (*Membership, error) {
	if request.Nickname == "" {
		return nil, fmt.Errorf("remote: nickname is required")
	}

	path := "/v1/sessions/" + sessionID.String() + "/join"
	body, err := c.doRequest(ctx, http.MethodPost, path, "", request)
	if err != nil {
		return nil, fmt.Errorf("remote: join session %s failed: %w", sessionID, err)
	}
	return c.membershipFromAuth(body)
}

// ImportSession creates a new session from an export snapshot, hosted
// by the caller. The authority reassigns all identifiers; markers in
// imported document content are rewritten server-side to match.
func (c *Client) ImportSession(ctx context.Context, export SessionExport, hostNickname string) (*Membership, error) {
	if hostNickname == "" {
		return nil, fmt.Errorf("remote: host nickname is required")
	}

	request := struct {
		Export       SessionExport `json:"export"`
		HostNickname string        `json:"host_nickname"`
	}{export, hostNickname}

	body, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions/import", "", request)
	if err != nil {
		return nil, fmt.Errorf("remote: import session failed: %w", err)
	}
	return c.membershipFromAuth(body)
}

func (c *Client) membershipFromAuth(body []byte) (*Membership, error) {
	var auth AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("remote: failed to parse auth response: %w", err)
	}
	if auth.Token == "" {
		return nil, fmt.Errorf("remote: authority returned no token")
	}

	c.logger.Info("joined session",
		"session_id", auth.Session.ID,
		"identity", auth.Identity.Short(),
		"nickname", auth.Nickname,
	)
	return &Membership{
		client:    c,
		sessionID: auth.Session.ID,
		identity:  auth.Identity,
		nickname:  auth.Nickname,
		token:     auth.Token,
	}, nil
}

// Resume reconstructs a Membership from persisted credentials, for
// picking up a session across restarts without rejoining. The token
// is not validated here; the first request does that.
func (c *Client) Resume(sessionID ref.SessionID, identity ref.Identity, nickname, token string) (*Membership, error) {
	if token == "" {
		return nil, fmt.Errorf("remote: token is required")
	}
	return &Membership{
		client:    c,
		sessionID: sessionID,
		identity:  identity,
		nickname:  nickname,
		token:     token,
	}, nil
}

// SessionID returns the session this membership belongs to.
func (m *Membership) SessionID() ref.SessionID { return m.sessionID }

// Identity returns the caller's identity within the session.
func (m *Membership) Identity() ref.Identity { return m.identity }

// Nickname returns the nickname the caller joined under.
func (m *Membership) Nickname() string { return m.nickname }

// Token returns the bearer token, for persisting session context.
func (m *Membership) Token() string { return m.token }

// path builds a session-scoped request path.
func (m *Membership) path(parts ...string) string {
	p := "/v1/sessions/" + m.sessionID.String()
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

func (m *Membership) get(ctx context.Context, path string, result any, query ...url.Values) error {
	return m.client.getJSON(ctx, path, m.token, result, query...)
}

func (m *Membership) do(ctx context.Context, method, path string, requestBody, result any) error {
	body, err := m.client.doRequest(ctx, method, path, m.token, requestBody)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("remote: failed to parse response from %s: %w", path, err)
	}
	return nil
}

// GetSession fetches the current session roster and metadata.
func (m *Membership) GetSession(ctx context.Context) (Session, error) {
	var session Session
	if err := m.get(ctx, m.path(), &session); err != nil {
		return Session{}, fmt.Errorf("remote: get session failed: %w", err)
	}
	return session, nil
}

// LeaveSession removes the caller from the session. The token is
// invalid afterward.
func (m *Membership) LeaveSession(ctx context.Context) error {
	if err := m.do(ctx, http.MethodPost, m.path("leave"), struct{}{}, nil); err != nil {
		return fmt.Errorf("remote: leave session failed: %w", err)
	}
	return nil
}

// EndSession deletes the session and everything in it. Host only.
func (m *Membership) EndSession(ctx context.Context) error {
	if err := m.do(ctx, http.MethodDelete, m.path(), nil, nil); err != nil {
		return fmt.Errorf("remote: end session failed: %w", err)
	}
	return nil
}

// ListChannels returns the host-created channels.
func (m *Membership) ListChannels(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	if err := m.get(ctx, m.path("channels"), &channels); err != nil {
		return nil, fmt.Errorf("remote: list channels failed: %w", err)
	}
	return channels, nil
}

// ListMembersChannels returns the member-created channels.
func (m *Membership) ListMembersChannels(ctx context.Context) ([]MembersChannel, error) {
	var channels []MembersChannel
	if err := m.get(ctx, m.path("members-channels"), &channels); err != nil {
		return nil, fmt.Errorf("remote: list members channels failed: %w", err)
	}
	return channels, nil
}

// CreateChannel creates a host channel. Duplicate names are accepted.
func (m *Membership) CreateChannel(ctx context.Context, name string) (Channel, error) {
	var channel Channel
	request := struct {
		Name string `json:"name"`
	}{name}
	if err := m.do(ctx, http.MethodPost, m.path("channels"), request, &channel); err != nil {
		return Channel{}, fmt.Errorf("remote: create channel failed: %w", err)
	}
	return channel, nil
}

// CreateMembersChannel creates a member channel owned by the caller.
func (m *Membership) CreateMembersChannel(ctx context.Context, name string) (MembersChannel, error) {
	var channel MembersChannel
	request := struct {
		Name string `json:"name"`
	}{name}
	if err := m.do(ctx, http.MethodPost, m.path("members-channels"), request, &channel); err != nil {
		return MembersChannel{}, fmt.Errorf("remote: create members channel failed: %w", err)
	}
	return channel, nil
}

// RenameChannel renames a channel of either kind.
func (m *Membership) RenameChannel(ctx context.Context, scope ChannelScope, name string) error {
	request := struct {
		Name string `json:"name"`
	}{name}
	path := m.path(scope.Kind.String(), scope.ID.String(), "rename")
	if err := m.do(ctx, http.MethodPost, path, request, nil); err != nil {
		return fmt.Errorf("remote: rename channel %s failed: %w", scope.ID, err)
	}
	return nil
}

// DeleteChannel deletes a channel of either kind along with its
// messages.
func (m *Membership) DeleteChannel(ctx context.Context, scope ChannelScope) error {
	path := m.path(scope.Kind.String(), scope.ID.String())
	if err := m.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("remote: delete channel %s failed: %w", scope.ID, err)
	}
	return nil
}

// ListMessages returns the channel's loaded message window, oldest
// first. The authority bounds the window; older messages fall off.
func (m *Membership) ListMessages(ctx context.Context, scope ChannelScope) ([]Message, error) {
	var messages []Message
	path := m.path(scope.Kind.String(), scope.ID.String(), "messages")
	if err := m.get(ctx, path, &messages); err != nil {
		return nil, fmt.Errorf("remote: list messages in %s failed: %w", scope.ID, err)
	}
	return messages, nil
}

// PostMessage appends a message to a channel and returns the stored
// record with its authority-assigned identifier and timestamp.
func (m *Membership) PostMessage(ctx context.Context, scope ChannelScope, request PostMessageRequest) (Message, error) {
	var message Message
	path := m.path(scope.Kind.String(), scope.ID.String(), "messages")
	if err := m.do(ctx, http.MethodPost, path, request, &message); err != nil {
		return Message{}, fmt.Errorf("remote: post message to %s failed: %w", scope.ID, err)
	}
	return message, nil
}

// ListDocuments returns the session documents, including content and
// file references.
func (m *Membership) ListDocuments(ctx context.Context) ([]Document, error) {
	var documents []Document
	if err := m.get(ctx, m.path("documents"), &documents); err != nil {
		return nil, fmt.Errorf("remote: list documents failed: %w", err)
	}
	return documents, nil
}

// GetDocument fetches one session document with its file references.
func (m *Membership) GetDocument(ctx context.Context, id ref.DocumentID) (Document, error) {
	var document Document
	if err := m.get(ctx, m.path("documents", id.String()), &document); err != nil {
		return Document{}, fmt.Errorf("remote: get document %s failed: %w", id, err)
	}
	return document, nil
}

// CreateDocument creates an empty session document.
func (m *Membership) CreateDocument(ctx context.Context, name string) (Document, error) {
	var document Document
	request := struct {
		Name string `json:"name"`
	}{name}
	if err := m.do(ctx, http.MethodPost, m.path("documents"), request, &document); err != nil {
		return Document{}, fmt.Errorf("remote: create document failed: %w", err)
	}
	return document, nil
}

// RenameDocument renames a session document.
func (m *Membership) RenameDocument(ctx context.Context, id ref.DocumentID, name string) error {
	request := struct {
		Name string `json:"name"`
	}{name}
	if err := m.do(ctx, http.MethodPost, m.path("documents", id.String(), "rename"), request, nil); err != nil {
		return fmt.Errorf("remote: rename document %s failed: %w", id, err)
	}
	return nil
}

// DeleteDocument deletes a session document, its comments, and its
// files.
func (m *Membership) DeleteDocument(ctx context.Context, id ref.DocumentID) error {
	if err := m.do(ctx, http.MethodDelete, m.path("documents", id.String()), nil, nil); err != nil {
		return fmt.Errorf("remote: delete document %s failed: %w", id, err)
	}
	return nil
}

// EditDocument submits new content against the revision the caller
// last observed and returns the stored document, whose revision the
// edit coordinator adopts. The authority rejects the edit when the
// document is locked.
func (m *Membership) EditDocument(ctx context.Context, id ref.DocumentID, content string, revision uint64) (Document, error) {
	var document Document
	request := struct {
		Content  string `json:"content"`
		Revision uint64 `json:"revision"`
	}{content, revision}
	if err := m.do(ctx, http.MethodPut, m.path("documents", id.String(), "content"), request, &document); err != nil {
		return Document{}, fmt.Errorf("remote: edit document %s failed: %w", id, err)
	}
	return document, nil
}

// LockDocument locks a session document against edits. Host only.
func (m *Membership) LockDocument(ctx context.Context, id ref.DocumentID) (Document, error) {
	var document Document
	if err := m.do(ctx, http.MethodPost, m.path("documents", id.String(), "lock"), struct{}{}, &document); err != nil {
		return Document{}, fmt.Errorf("remote: lock document %s failed: %w", id, err)
	}
	return document, nil
}

// UnlockDocument clears a session document's lock. Host only.
func (m *Membership) UnlockDocument(ctx context.Context, id ref.DocumentID) (Document, error) {
	var document Document
	if err := m.do(ctx, http.MethodPost, m.path("documents", id.String(), "unlock"), struct{}{}, &document); err != nil {
		return Document{}, fmt.Errorf("remote: unlock document %s failed: %w", id, err)
	}
	return document, nil
}

// ListPlayerDocuments returns the player documents visible to the
// caller: every member's public documents, the caller's private ones,
// and — for the host — all private documents.
func (m *Membership) ListPlayerDocuments(ctx context.Context) ([]PlayerDocument, error) {
	var documents []PlayerDocument
	if err := m.get(ctx, m.path("player-documents"), &documents); err != nil {
		return nil, fmt.Errorf("remote: list player documents failed: %w", err)
	}
	return documents, nil
}

// GetPlayerDocument fetches one player document, subject to the same
// visibility rules as ListPlayerDocuments.
func (m *Membership) GetPlayerDocument(ctx context.Context, id ref.DocumentID) (PlayerDocument, error) {
	var document PlayerDocument
	if err := m.get(ctx, m.path("player-documents", id.String()), &document); err != nil {
		return PlayerDocument{}, fmt.Errorf("remote: get player document %s failed: %w", id, err)
	}
	return document, nil
}

// CreatePlayerDocument creates a player document owned by the caller.
func (m *Membership) CreatePlayerDocument(ctx context.Context, name string, private bool) (PlayerDocument, error) {
	var document PlayerDocument
	request := struct {
		Name    string `json:"name"`
		Private bool   `json:"private"`
	}{name, private}
	if err := m.do(ctx, http.MethodPost, m.path("player-documents"), request, &document); err != nil {
		return PlayerDocument{}, fmt.Errorf("remote: create player document failed: %w", err)
	}
	return document, nil
}

// EditPlayerDocument replaces a player document's content. Owner only;
// player documents carry no revision counter or lock.
func (m *Membership) EditPlayerDocument(ctx context.Context, id ref.DocumentID, content string) (PlayerDocument, error) {
	var document PlayerDocument
	request := struct {
		Content string `json:"content"`
	}{content}
	if err := m.do(ctx, http.MethodPut, m.path("player-documents", id.String(), "content"), request, &document); err != nil {
		return PlayerDocument{}, fmt.Errorf("remote: edit player document %s failed: %w", id, err)
	}
	return document, nil
}

// RenamePlayerDocument renames a player document. Owner only.
func (m *Membership) RenamePlayerDocument(ctx context.Context, id ref.DocumentID, name string) error {
	request := struct {
		Name string `json:"name"`
	}{name}
	if err := m.do(ctx, http.MethodPost, m.path("player-documents", id.String(), "rename"), request, nil); err != nil {
		return fmt.Errorf("remote: rename player document %s failed: %w", id, err)
	}
	return nil
}

// DeletePlayerDocument deletes a player document. Owner only.
func (m *Membership) DeletePlayerDocument(ctx context.Context, id ref.DocumentID) error {
	if err := m.do(ctx, http.MethodDelete, m.path("player-documents", id.String()), nil, nil); err != nil {
		return fmt.Errorf("remote: delete player document %s failed: %w", id, err)
	}
	return nil
}

// SetPlayerDocumentVisibility sets a player document's private flag.
// Owner only.
func (m *Membership) SetPlayerDocumentVisibility(ctx context.Context, id ref.DocumentID, private bool) (PlayerDocument, error) {
	var document PlayerDocument
	request := struct {
		Private bool `json:"private"`
	}{private}
	if err := m.do(ctx, http.MethodPost, m.path("player-documents", id.String(), "visibility"), request, &document); err != nil {
		return PlayerDocument{}, fmt.Errorf("remote: set player document %s visibility failed: %w", id, err)
	}
	return document, nil
}

// ListComments returns a document's comments, oldest first.
func (m *Membership) ListComments(ctx context.Context, documentID ref.DocumentID) ([]Comment, error) {
	var comments []Comment
	if err := m.get(ctx, m.path("documents", documentID.String(), "comments"), &comments); err != nil {
		return nil, fmt.Errorf("remote: list comments on %s failed: %w", documentID, err)
	}
	return comments, nil
}

// AddComment attaches a comment to a document.
func (m *Membership) AddComment(ctx context.Context, documentID ref.DocumentID, text string) (Comment, error) {
	var comment Comment
	request := struct {
		Text string `json:"text"`
	}{text}
	if err := m.do(ctx, http.MethodPost, m.path("documents", documentID.String(), "comments"), request, &comment); err != nil {
		return Comment{}, fmt.Errorf("remote: add comment to %s failed: %w", documentID, err)
	}
	return comment, nil
}

// DeleteComment removes a comment.
func (m *Membership) DeleteComment(ctx context.Context, documentID ref.DocumentID, commentID ref.CommentID) error {
	path := m.path("documents", documentID.String(), "comments", commentID.String())
	if err := m.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("remote: delete comment %s failed: %w", commentID, err)
	}
	return nil
}

// UploadFile stores a file against a document and returns the new
// reference. The caller inserts the corresponding content marker
// itself; upload and marker insertion are separate steps.
func (m *Membership) UploadFile(ctx context.Context, request UploadFileRequest) (FileReference, error) {
	if len(request.Data) == 0 {
		return FileReference{}, fmt.Errorf("remote: upload data is empty")
	}
	if request.Label == "" {
		return FileReference{}, fmt.Errorf("remote: upload label is required")
	}

	query := url.Values{}
	query.Set("label", request.Label)
	path := m.path("documents", request.DocumentID.String(), "files") + "?" + query.Encode()

	body, err := m.client.doRequestRaw(ctx, http.MethodPost, path, m.token, request.MediaType, bytes.NewReader(request.Data))
	if err != nil {
		return FileReference{}, fmt.Errorf("remote: upload file to %s failed: %w", request.DocumentID, err)
	}

	var reference FileReference
	if err := json.Unmarshal(body, &reference); err != nil {
		return FileReference{}, fmt.Errorf("remote: failed to parse upload response: %w", err)
	}

	m.client.logger.Info("uploaded file",
		"document_id", request.DocumentID,
		"file_id", reference.ID,
		"label", reference.Label,
		"size", len(request.Data),
	)
	return reference, nil
}

// GetFileReference fetches a file's metadata. A rejection with status
// 404 means the file was deleted; renderers degrade the marker to a
// placeholder rather than treating this as an error.
func (m *Membership) GetFileReference(ctx context.Context, id ref.FileID) (FileReference, error) {
	var reference FileReference
	if err := m.get(ctx, m.path("files", id.String()), &reference); err != nil {
		return FileReference{}, fmt.Errorf("remote: get file %s failed: %w", id, err)
	}
	return reference, nil
}

// DownloadFile fetches a file's bytes.
func (m *Membership) DownloadFile(ctx context.Context, id ref.FileID) ([]byte, error) {
	body, err := m.client.doRequest(ctx, http.MethodGet, m.path("files", id.String(), "content"), m.token, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: download file %s failed: %w", id, err)
	}
	return body, nil
}

// Roll asks the authority to execute a dice pattern so the result is
// recorded and visible to every member.
func (m *Membership) Roll(ctx context.Context, pattern string) (RollResult, error) {
	var result RollResult
	request := struct {
		Pattern string `json:"pattern"`
	}{pattern}
	if err := m.do(ctx, http.MethodPost, m.path("roll"), request, &result); err != nil {
		return RollResult{}, fmt.Errorf("remote: roll %q failed: %w", pattern, err)
	}
	return result, nil
}

// GetTurnOrder fetches the session's turn order. An empty order means
// none has been set.
func (m *Membership) GetTurnOrder(ctx context.Context) (TurnOrder, error) {
	var order TurnOrder
	if err := m.get(ctx, m.path("turn-order"), &order); err != nil {
		return TurnOrder{}, fmt.Errorf("remote: get turn order failed: %w", err)
	}
	return order, nil
}

// SetTurnOrder replaces the turn order. Host only. The current index
// resets to zero.
func (m *Membership) SetTurnOrder(ctx context.Context, order []string) (TurnOrder, error) {
	var result TurnOrder
	request := struct {
		Order []string `json:"order"`
	}{order}
	if err := m.do(ctx, http.MethodPut, m.path("turn-order"), request, &result); err != nil {
		return TurnOrder{}, fmt.Errorf("remote: set turn order failed: %w", err)
	}
	return result, nil
}

// NextTurn advances the turn order, wrapping at the end. Host only.
func (m *Membership) NextTurn(ctx context.Context) (TurnOrder, error) {
	var result TurnOrder
	if err := m.do(ctx, http.MethodPost, m.path("turn-order", "next"), struct{}{}, &result); err != nil {
		return TurnOrder{}, fmt.Errorf("remote: next turn failed: %w", err)
	}
	return result, nil
}

// ExportSession fetches the full session snapshot.
func (m *Membership) ExportSession(ctx context.Context) (SessionExport, error) {
	var export SessionExport
	if err := m.get(ctx, m.path("export"), &export); err != nil {
		return SessionExport{}, fmt.Errorf("remote: export session failed: %w", err)
	}
	return export, nil
}
