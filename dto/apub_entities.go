package dto

import (
	"encoding/json"
	"fmt"
)

type ActorDoc struct {
	Context           any            `json:"@context"`
	Id                string         `json:"id"`
	Type              string         `json:"type"`
	PreferredUserName string         `json:"preferredUsername"`
	Name              string         `json:"name,omitempty"`
	Summary           string         `json:"summary,omitempty"`
	ManuallyApproves  bool           `json:"manuallyApprovesFollowers"`
	Published         string         `json:"published,omitempty"`
	Inbox             string         `json:"inbox"`
	Outbox            string         `json:"outbox"`
	Followers         string         `json:"followers"`
	Following         string         `json:"following"`
	Endpoints         ActorEndpoints `json:"endpoints"`
	PublicKey         PublicKey      `json:"publicKey"`
}

type ActorEndpoints struct {
	SharedInbox string `json:"sharedInbox,omitempty"`
}

type PublicKey struct {
	Id           string `json:"id"`
	Owner        string `json:"owner"`
	PublicKeyPem string `json:"publicKeyPem"`
}

// getStrings accepts a single string or an array of strings.
func getStrings(raw any, field string) ([]string, error) {
	var res []string
	if raw == nil {
		return res, nil
	}
	if slice, ok := raw.([]interface{}); ok {
		for _, s := range slice {
			if str, ok := s.(string); ok {
				res = append(res, str)
			} else {
				return res, fmt.Errorf("list in '%s' must only contain strings", field)
			}
		}
	} else if str, ok := raw.(string); ok {
		res = []string{str}
	} else {
		return res, fmt.Errorf("'%s' must be single string or array of strings", field)
	}
	return res, nil
}

// ActivityInBase is the minimal structure every incoming activity must have.
type ActivityInBase struct {
	Id     string   `json:"id"`
	Type   string   `json:"type"`
	Actor  string   `json:"actor"`
	To     []string `json:"-"`
	RawTo  any      `json:"to"`
	Cc     []string `json:"-"`
	RawCc  any      `json:"cc"`
	Object any      `json:"object"`
}

func (x *ActivityInBase) UnmarshalJSON(data []byte) error {
	var err error
	type Y ActivityInBase
	var y = (*Y)(x)
	if err = json.Unmarshal(data, y); err != nil {
		return err
	}
	if y.To, err = getStrings(y.RawTo, "to"); err != nil {
		return err
	}
	if y.Cc, err = getStrings(y.RawCc, "cc"); err != nil {
		return err
	}
	return nil
}

type ActivityIn[T any] struct {
	Id     string `json:"id"`
	Type   string `json:"type"`
	Actor  string `json:"actor"`
	Object T      `json:"object"`
}

// FollowObject is a Follow activity, either on its own or embedded in Accept and Undo.
type FollowObject struct {
	Id     string `json:"id"`
	Type   string `json:"type"`
	Actor  string `json:"actor"`
	Object string `json:"object"`
}

type AudioLink struct {
	Type      string `json:"type"`
	Href      string `json:"href"`
	MediaType string `json:"mediaType"`
}

type Audio struct {
	Id        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Library   string    `json:"library"`
	Published string    `json:"published,omitempty"`
	Bitrate   int       `json:"bitrate"`
	Size      int64     `json:"size"`
	Duration  int       `json:"duration"`
	Url       AudioLink `json:"url"`
}

// DeletedObject is the object of a Delete activity. Its id may be a single URL or a list of URLs.
type DeletedObject struct {
	Type  string   `json:"type"`
	Ids   []string `json:"-"`
	RawId any      `json:"id"`
}

func (x *DeletedObject) UnmarshalJSON(data []byte) error {
	var err error
	type Y DeletedObject
	var y = (*Y)(x)
	if err = json.Unmarshal(data, y); err != nil {
		return err
	}
	y.Ids, err = getStrings(y.RawId, "id")
	return err
}
