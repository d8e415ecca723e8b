package workspacecmd

import "github.com/goliatone/go-command/dispatcher"

// Subscription releases a dispatcher registration.
type Subscription interface {
	Unsubscribe()
}

// SubscribeDispatcher registers every handler with the go-command dispatcher
// so callers can use dispatcher.Dispatch. The returned function unsubscribes
// them all.
func SubscribeDispatcher(set *HandlerSet) func() {
	if set == nil {
		return func() {}
	}
	subs := []Subscription{
		dispatcher.SubscribeCommand(set.ImportProject),
		dispatcher.SubscribeCommand(set.ImportDirectory),
		dispatcher.SubscribeCommand(set.CreateProject),
		dispatcher.SubscribeCommand(set.RenameProject),
		dispatcher.SubscribeCommand(set.DeleteProject),
		dispatcher.SubscribeCommand(set.SelectProject),
		dispatcher.SubscribeCommand(set.AddBreak),
		dispatcher.SubscribeCommand(set.RemoveBreak),
		dispatcher.SubscribeCommand(set.SwitchBreak),
		dispatcher.SubscribeCommand(set.UpdateBreak),
		dispatcher.SubscribeCommand(set.ReorderBreak),
		dispatcher.SubscribeCommand(set.EraseWorkspace),
		dispatcher.SubscribeCommand(set.AddNote),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}
