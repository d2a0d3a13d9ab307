package logic

var activityTypes = map[string]struct{}{
	"Accept":          {},
	"Add":             {},
	"Announce":        {},
	"Arrive":          {},
	"Block":           {},
	"Create":          {},
	"Delete":          {},
	"Dislike":         {},
	"Flag":            {},
	"Follow":          {},
	"Ignore":          {},
	"Invite":          {},
	"Join":            {},
	"Leave":           {},
	"Like":            {},
	"Listen":          {},
	"Move":            {},
	"Offer":           {},
	"Question":        {},
	"Reject":          {},
	"Read":            {},
	"Remove":          {},
	"TentativeReject": {},
	"TentativeAccept": {},
	"Travel":          {},
	"Undo":            {},
	"Update":          {},
	"View":            {},
}

// Activity types whose inbox items are pushed to the recipients' notification channels.
var broadcastToUserTypes = map[string]struct{}{
	"Follow": {},
	"Accept": {},
}

func IsActivityType(t string) bool {
	_, ok := activityTypes[t]
	return ok
}
