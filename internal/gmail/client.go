// Package gmail is the mailbox provider. It wraps the Gmail API with
// the small surface the pipeline needs: listing unread mail, fetching
// ordered threads, creating draft replies and marking messages read.
package gmail

import (
	"context"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/xecurify/draftpilot/internal/google"
	"github.com/xecurify/draftpilot/internal/mail"
)

// Client wraps the Gmail Users service for one account.
type Client struct {
	svc     *gmail.UsersService
	account string
}

// Account returns the account this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// NewClient creates a Gmail client with OAuth2 authentication for the
// account. It fails when no cached token exists; run the auth flow
// first.
func NewClient(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClient(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token for account %s: %w", account, err)
	}

	svc, err := gmail.New(httpClient)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	return &Client{svc: svc.Users, account: account}, nil
}

// ListUnread returns up to limit unread inbox messages, fully fetched.
func (c *Client) ListUnread(limit int64) ([]mail.Message, error) {
	return c.Search("is:unread in:inbox", limit)
}

// Search returns up to limit messages matching the Gmail query, fully
// fetched and converted.
func (c *Client) Search(query string, limit int64) ([]mail.Message, error) {
	req := c.svc.Messages.List("me").Q(query)
	if limit > 0 {
		req = req.MaxResults(limit)
	}
	res, err := req.Do()
	if err != nil {
		return nil, fmt.Errorf("list messages for %q: %w", query, err)
	}

	out := make([]mail.Message, 0, len(res.Messages))
	for _, stub := range res.Messages {
		full, err := c.svc.Messages.Get("me", stub.Id).Format("full").Do()
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", stub.Id, err)
		}
		out = append(out, convertMessage(full))
	}
	return out, nil
}

// GetThread fetches a thread and returns its messages ordered by send
// timestamp ascending.
func (c *Client) GetThread(threadID string) (mail.Thread, error) {
	thread, err := c.svc.Threads.Get("me", threadID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("get thread %s: %w", threadID, err)
	}

	out := make(mail.Thread, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		out = append(out, convertMessage(m))
	}
	out.Sort()
	return out, nil
}

// CreateDraftReply creates a Gmail draft replying to the original
// message, threaded via In-Reply-To and References.
func (c *Client) CreateDraftReply(original mail.Message, body string) error {
	raw, err := buildReplyRaw(original, body)
	if err != nil {
		return err
	}

	_, err = c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{
			Raw:      raw,
			ThreadId: original.ThreadID,
		},
	}).Do()
	if err != nil {
		return fmt.Errorf("create draft for message %s: %w", original.ID, err)
	}
	return nil
}

// MarkRead removes the UNREAD label from a message.
func (c *Client) MarkRead(messageID string) error {
	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Do()
	if err != nil {
		return fmt.Errorf("mark message %s read: %w", messageID, err)
	}
	return nil
}
