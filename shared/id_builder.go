package shared

import (
	"fmt"
)

// IdBuilder mints the canonical URLs of objects that live on this node.
type IdBuilder struct {
	Host string
}

func (idb *IdBuilder) SiteUrl() string {
	return fmt.Sprintf("https://%s", idb.Host)
}

func (idb *IdBuilder) SharedInbox() string {
	return fmt.Sprintf("https://%s/federation/shared/inbox", idb.Host)
}

func (idb *IdBuilder) ActorUrl(name string) string {
	return fmt.Sprintf("https://%s/federation/actors/%s", idb.Host, name)
}

func (idb *IdBuilder) ActorKeyId(name string) string {
	return fmt.Sprintf("https://%s/federation/actors/%s#main-key", idb.Host, name)
}

func (idb *IdBuilder) ActorInbox(name string) string {
	return fmt.Sprintf("https://%s/federation/actors/%s/inbox", idb.Host, name)
}

func (idb *IdBuilder) ActorOutbox(name string) string {
	return fmt.Sprintf("https://%s/federation/actors/%s/outbox", idb.Host, name)
}

func (idb *IdBuilder) ActorFollowers(name string) string {
	return fmt.Sprintf("https://%s/federation/actors/%s/followers", idb.Host, name)
}

func (idb *IdBuilder) ActorFollowing(name string) string {
	return fmt.Sprintf("https://%s/federation/actors/%s/following", idb.Host, name)
}

func (idb *IdBuilder) LibraryUrl(uuid string) string {
	return fmt.Sprintf("https://%s/federation/music/libraries/%s", idb.Host, uuid)
}

func (idb *IdBuilder) LibraryFollowers(uuid string) string {
	return fmt.Sprintf("https://%s/federation/music/libraries/%s/followers", idb.Host, uuid)
}

func (idb *IdBuilder) UploadUrl(uuid string) string {
	return fmt.Sprintf("https://%s/federation/music/uploads/%s", idb.Host, uuid)
}

func (idb *IdBuilder) FollowUrl(uuid string) string {
	return fmt.Sprintf("https://%s/federation/follows/%s", idb.Host, uuid)
}

func (idb *IdBuilder) LibraryFollowUrl(uuid string) string {
	return fmt.Sprintf("https://%s/federation/follows/library/%s", idb.Host, uuid)
}

func (idb *IdBuilder) ActivityUrl(uuid string) string {
	return fmt.Sprintf("https://%s/federation/activities/%s", idb.Host, uuid)
}
