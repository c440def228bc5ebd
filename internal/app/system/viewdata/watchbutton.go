// internal/app/system/viewdata/watchbutton.go
package viewdata

import "github.com/dalemusser/sceneit/internal/app/watch"

// WatchButtonVM feeds the watch_button snippet: the toggle control for
// one (movie, collection) pair on a detail page or an HTMX swap.
type WatchButtonVM struct {
	SignedIn    bool
	InList      bool
	State       string // wire form of the control's current state
	Endpoint    string // POST target, e.g. /watchlist/toggle
	MovieID     int
	MediaType   string
	AddLabel    string
	RemoveLabel string
	ReturnURL   string // sign-in return destination for signed-out visitors
	Notice      string // optional inline message ("Already in your watchlist")
}

// NewWatchButton builds the control in a settled state.
func NewWatchButton(signedIn, inList bool, endpoint string, movieID int, mediaType, addLabel, removeLabel, returnURL string) WatchButtonVM {
	state := watch.StateAbsent
	if inList {
		state = watch.StatePresent
	}
	return WatchButtonVM{
		SignedIn:    signedIn,
		InList:      inList,
		State:       state.String(),
		Endpoint:    endpoint,
		MovieID:     movieID,
		MediaType:   mediaType,
		AddLabel:    addLabel,
		RemoveLabel: removeLabel,
		ReturnURL:   returnURL,
	}
}
