// Package whatsapp provides WhatsApp Cloud API payload types and a sender
// client for the Graph API messages endpoint.
package whatsapp

// WebhookPayload is the top-level document Meta delivers to the webhook.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one business-account entry in a webhook delivery.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change is one field change within an entry.
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value carries the messages or statuses of a change.
type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

// Metadata identifies the receiving business number.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact is the sender's profile info.
type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

// Profile holds the sender's display name.
type Profile struct {
	Name string `json:"name"`
}

// Message is one inbound message.
type Message struct {
	From        string       `json:"from"`
	ID          string       `json:"id"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

// Text is the body of a plain text message.
type Text struct {
	Body string `json:"body"`
}

// Interactive is a button or list reply.
type Interactive struct {
	Type        string `json:"type"`
	ButtonReply *Reply `json:"button_reply,omitempty"`
	ListReply   *Reply `json:"list_reply,omitempty"`
}

// Reply is the selected option of an interactive message.
type Reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Status is a delivery status notification for an outbound message.
type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// ReplyText extracts the user's text from a message. Text messages use the
// body; interactive replies use the tapped option's title so the engine sees
// the same words the user saw. Returns ok=false for unsupported types.
func (m *Message) ReplyText() (string, bool) {
	switch m.Type {
	case "text":
		if m.Text == nil {
			return "", false
		}
		return m.Text.Body, true
	case "interactive":
		if m.Interactive == nil {
			return "", false
		}
		switch m.Interactive.Type {
		case "button_reply":
			if m.Interactive.ButtonReply != nil {
				return m.Interactive.ButtonReply.Title, true
			}
		case "list_reply":
			if m.Interactive.ListReply != nil {
				return m.Interactive.ListReply.Title, true
			}
		}
		return "", false
	default:
		return "", false
	}
}

// Outbound payload types for the messages endpoint.

type sendRequest struct {
	MessagingProduct string           `json:"messaging_product"`
	RecipientType    string           `json:"recipient_type,omitempty"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             *sendText        `json:"text,omitempty"`
	Interactive      *sendInteractive `json:"interactive,omitempty"`
}

type sendText struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type sendInteractive struct {
	Type   string      `json:"type"`
	Header *sendHeader `json:"header,omitempty"`
	Body   sendBody    `json:"body"`
	Action sendAction  `json:"action"`
}

type sendHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sendBody struct {
	Text string `json:"text"`
}

type sendAction struct {
	Button   string        `json:"button"`
	Sections []sendSection `json:"sections"`
}

type sendSection struct {
	Title string    `json:"title"`
	Rows  []sendRow `json:"rows"`
}

type sendRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// SendResult is the provider's acknowledgement of an accepted message.
type SendResult struct {
	MessagingProduct string `json:"messaging_product"`
	Messages         []struct {
		ID string `json:"id"`
	} `json:"messages"`
}
