package shape

import "strconv"

// Family names of the shaped record groups. These are also the keys of
// the validation schema.
const (
	FamilyNode     = "node"
	FamilyNodeTags = "node_tags"
	FamilyWay      = "way"
	FamilyWayNodes = "way_nodes"
	FamilyWayTags  = "way_tags"
)

var Families = []string{FamilyNode, FamilyNodeTags, FamilyWay, FamilyWayNodes, FamilyWayTags}

// Record is a single shaped row. Field returns the value of a column and
// whether it is set. Empty values are reported as missing.
type Record interface {
	Field(name string) (string, bool)
}

type Node struct {
	ID        string `csv:"id"`
	Lat       string `csv:"lat"`
	Lon       string `csv:"lon"`
	User      string `csv:"user"`
	UID       string `csv:"uid"`
	Version   string `csv:"version"`
	Changeset string `csv:"changeset"`
	Timestamp string `csv:"timestamp"`
}

var NodeFields = []string{"id", "lat", "lon", "user", "uid", "version", "changeset", "timestamp"}

func (n *Node) Field(name string) (string, bool) {
	var v string
	switch name {
	case "id":
		v = n.ID
	case "lat":
		v = n.Lat
	case "lon":
		v = n.Lon
	case "user":
		v = n.User
	case "uid":
		v = n.UID
	case "version":
		v = n.Version
	case "changeset":
		v = n.Changeset
	case "timestamp":
		v = n.Timestamp
	}
	return v, v != ""
}

func (n *Node) set(name, value string) {
	switch name {
	case "id":
		n.ID = value
	case "lat":
		n.Lat = value
	case "lon":
		n.Lon = value
	case "user":
		n.User = value
	case "uid":
		n.UID = value
	case "version":
		n.Version = value
	case "changeset":
		n.Changeset = value
	case "timestamp":
		n.Timestamp = value
	}
}

type Way struct {
	ID        string `csv:"id"`
	User      string `csv:"user"`
	UID       string `csv:"uid"`
	Version   string `csv:"version"`
	Changeset string `csv:"changeset"`
	Timestamp string `csv:"timestamp"`
}

var WayFields = []string{"id", "user", "uid", "version", "changeset", "timestamp"}

func (w *Way) Field(name string) (string, bool) {
	var v string
	switch name {
	case "id":
		v = w.ID
	case "user":
		v = w.User
	case "uid":
		v = w.UID
	case "version":
		v = w.Version
	case "changeset":
		v = w.Changeset
	case "timestamp":
		v = w.Timestamp
	}
	return v, v != ""
}

func (w *Way) set(name, value string) {
	switch name {
	case "id":
		w.ID = value
	case "user":
		w.User = value
	case "uid":
		w.UID = value
	case "version":
		w.Version = value
	case "changeset":
		w.Changeset = value
	case "timestamp":
		w.Timestamp = value
	}
}

// Tag is a row of nodes_tags or ways_tags.
type Tag struct {
	ID    string `csv:"id"`
	Key   string `csv:"key"`
	Value string `csv:"value"`
	Type  string `csv:"type"`
}

var TagFields = []string{"id", "key", "value", "type"}

func (t *Tag) Field(name string) (string, bool) {
	switch name {
	case "id":
		return t.ID, t.ID != ""
	// key, value and type are always present. Empty strings come from
	// empty tag values and from keys like name: or :foo.
	case "key":
		return t.Key, true
	case "value":
		return t.Value, true
	case "type":
		return t.Type, true
	}
	return "", false
}

// WayNode is a row of ways_nodes.
type WayNode struct {
	ID       string `csv:"id"`
	NodeID   string `csv:"node_id"`
	Position int    `csv:"position"`
}

var WayNodeFields = []string{"id", "node_id", "position"}

func (wn *WayNode) Field(name string) (string, bool) {
	switch name {
	case "id":
		return wn.ID, wn.ID != ""
	case "node_id":
		return wn.NodeID, wn.NodeID != ""
	case "position":
		return strconv.Itoa(wn.Position), true
	}
	return "", false
}
