// Package kb implements the knowledge-base operations exposed to the agent:
// Read, Write, List and Delete.
//
// Every operation takes the storage root explicitly and returns a message
// meant for direct display. Validation failures are ordinary messages with
// a nil error; a non-nil error means the primary filesystem action failed.
package kb

// Messages shared by several operations.
const (
	MsgEmpty   = "Knowledge base is empty. No entries found."
	MsgOutside = "Invalid %s: target is outside the knowledge base directory."
)

// Result limits.
const (
	RecentLimit = 5
	SearchLimit = 3
	PathBonus   = 3
)
