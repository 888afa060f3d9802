package repository

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// bucketTypes maps watcher bucket types to source kinds.
var bucketTypes = map[string]domain.SourceKind{
	"currentwindow":       domain.SourceWindow,
	"web.tab.current":     domain.SourceBrowser,
	"afkstatus":           domain.SourceAFK,
	"app.editor.activity": domain.SourceEditor,
}

// bucketPrefixes is consulted when the type is unknown, e.g. in hand-made exports.
var bucketPrefixes = []struct {
	prefix string
	kind   domain.SourceKind
}{
	{"aw-watcher-window", domain.SourceWindow},
	{"aw-watcher-web", domain.SourceBrowser},
	{"aw-watcher-afk", domain.SourceAFK},
	{"aw-watcher-vscode", domain.SourceEditor},
	{"aw-watcher-jetbrains", domain.SourceEditor},
}

// classifyBucket fills Kind and Host from the bucket name and type.
// "aw-watcher-web-firefox_laptop" is a browser bucket of host "laptop";
// a name without a host suffix matches every host.
func classifyBucket(b Bucket) Bucket {
	if kind, ok := bucketTypes[b.Type]; ok {
		b.Kind = kind
	} else {
		for _, p := range bucketPrefixes {
			if strings.HasPrefix(b.Name, p.prefix) {
				b.Kind = p.kind
				break
			}
		}
	}
	if i := strings.LastIndex(b.Name, "_"); i >= 0 {
		b.Host = b.Name[i+1:]
	}
	return b
}

// eventData is the JSON payload of a watcher event. Only the fields the
// analyzer reads are decoded.
type eventData struct {
	App      string `json:"app"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Status   string `json:"status"`
	File     string `json:"file"`
	Project  string `json:"project"`
	Language string `json:"language"`
}

// decodePayload never fails: an unreadable payload becomes an empty one
// and the normalizer counts the event as malformed.
func decodePayload(raw []byte) domain.Payload {
	var d eventData
	if err := json.Unmarshal(raw, &d); err != nil {
		return domain.Payload{}
	}
	return domain.Payload{
		App:      d.App,
		Title:    d.Title,
		URL:      d.URL,
		Status:   d.Status,
		File:     d.File,
		Project:  d.Project,
		Language: d.Language,
	}
}

// fromNanos converts a watcher nanosecond timestamp to UTC time.
func fromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
