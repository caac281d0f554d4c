package tickets

import "github.com/khanghh/unionhub/model"

var transitions = map[model.TicketStatus][]model.TicketStatus{
	model.TicketStatusOpen:       {model.TicketStatusInProgress},
	model.TicketStatusInProgress: {model.TicketStatusResolved},
	model.TicketStatusResolved:   {model.TicketStatusClosed, model.TicketStatusInProgress},
}

func validStatus(status model.TicketStatus) bool {
	switch status {
	case model.TicketStatusOpen, model.TicketStatusInProgress, model.TicketStatusResolved, model.TicketStatusClosed:
		return true
	}
	return false
}

// CanTransition reports whether a ticket may move from one status to another.
// Any ticket that is not closed yet may be closed.
func CanTransition(from, to model.TicketStatus) bool {
	if from == model.TicketStatusClosed {
		return false
	}
	if to == model.TicketStatusClosed {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
