package models

// Poll is a broadcast question with mutually exclusive per-user voting. It
// lives only as long as the announcement message; polls do not survive a
// process restart.
type Poll struct {
	Question string
	Options  []string
	Votes    []map[string]struct{} // voter IDs per option index
}

// NewPoll creates a poll with one empty voter set per option.
func NewPoll(question string, options []string) *Poll {
	votes := make([]map[string]struct{}, len(options))
	for i := range votes {
		votes[i] = make(map[string]struct{})
	}
	return &Poll{
		Question: question,
		Options:  options,
		Votes:    votes,
	}
}

// CastVote records userID under the given option, removing any previous vote
// first so a voter is counted under at most one option.
func (p *Poll) CastVote(userID string, option int) {
	for _, voters := range p.Votes {
		delete(voters, userID)
	}
	p.Votes[option][userID] = struct{}{}
}

// VoteCount returns the number of voters for an option.
func (p *Poll) VoteCount(option int) int {
	return len(p.Votes[option])
}
