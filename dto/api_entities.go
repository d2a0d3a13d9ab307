package dto

import "time"

type LinkedObject struct {
	Kind string `json:"kind"`
	Id   int64  `json:"id"`
	Fid  string `json:"fid,omitempty"`
}

type ActivityInfo struct {
	Id            int64         `json:"id"`
	Uuid          string        `json:"uuid"`
	Fid           string        `json:"fid,omitempty"`
	Type          string        `json:"type"`
	Actor         string        `json:"actor"`
	CreatedAt     time.Time     `json:"creation_date"`
	Object        *LinkedObject `json:"object"`
	Target        *LinkedObject `json:"target"`
	RelatedObject *LinkedObject `json:"related_object"`
}

type InboxItem struct {
	Id       int64        `json:"id"`
	Type     string       `json:"type"`
	IsRead   bool         `json:"is_read"`
	Activity ActivityInfo `json:"activity"`
}

// StreamEvent is the envelope pushed to a user's notification channel.
type StreamEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Data any    `json:"data"`
}

type InboxItemAdded struct {
	Type string     `json:"type"`
	Item *InboxItem `json:"item"`
}
