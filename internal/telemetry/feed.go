package telemetry

import "github.com/tomz197/aviator/internal/loop"

// Feed is the HUD of one session as seen by watchers.
type Feed struct {
	hub     *Hub
	session int
	player  string
	updates int
	status  loop.Status
	last    loop.Readout
}

var _ loop.HUD = (*Feed)(nil)

// Session returns the HUD that publishes readouts of the given session.
func (h *Hub) Session(id int, player string) *Feed {
	return &Feed{hub: h, session: id, player: player, status: loop.StatusPlaying}
}

// Update publishes every n-th readout, and immediately when the status
// changed since the last one.
func (f *Feed) Update(r loop.Readout) {
	f.last = r
	f.updates++
	if r.Status != f.status || f.updates >= f.hub.every {
		f.status = r.Status
		f.publish()
	}
}

// ShowReplay and HideReplay need no snapshot of their own: the status
// change reaches watchers with the next readout.
func (f *Feed) ShowReplay() {}
func (f *Feed) HideReplay() {}

func (f *Feed) publish() {
	f.updates = 0
	f.hub.Publish(Snapshot{
		Session:  f.session,
		Player:   f.player,
		Distance: f.last.Distance,
		Level:    f.last.Level,
		Energy:   f.last.Energy,
		Status:   f.last.Status.String(),
		At:       f.hub.now().UnixMilli(),
	})
}
