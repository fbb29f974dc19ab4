// internal/worker/topics.go
package worker

// Topics of the measurement network.
const (
	// TopicDAQStatus carries this client's presence announcements and
	// its last will.
	TopicDAQStatus = "daq/status"

	topicStart  = "daq/start"
	topicStop   = "daq/stop"
	topicSingle = "daq/single"
	topicRun    = "measurement/run"
	topicLog    = "measurement/log"
	topicStatus = "measurement/status"
	topicData   = "data/raw/daq"
)

// Subscriptions lists the topic filters the worker consumes. The wildcards
// cover every topic the dispatch loop acts on.
var Subscriptions = []string{"measurement/#", "daq/#"}
