package mqtt

import "strings"

// Topics builds the topic names under one prefix:
//
//	{prefix}/embeds/{id}/events   notifications, published
//	{prefix}/embeds/{id}/input    commands, subscribed
type Topics struct {
	Prefix string
}

func (t Topics) Events(embedID string) string {
	return t.Prefix + "/embeds/" + embedID + "/events"
}

func (t Topics) Input(embedID string) string {
	return t.Prefix + "/embeds/" + embedID + "/input"
}

// InputFilter matches the input topic of every embed.
func (t Topics) InputFilter() string {
	return t.Input("+")
}

// ParseInput returns the embed id of an input topic.
func (t Topics) ParseInput(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, t.Prefix+"/embeds/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/input")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
