// Package lod hides decorative scene nodes that are far from the player.
package lod

import (
	"github.com/Faultbox/skybound/internal/engine/scene"
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// DefaultHideDistance is the distance beyond which detail nodes are hidden.
const DefaultHideDistance float32 = 20000

// Result summarises one Update pass.
type Result struct {
	Visible int // detail nodes visible after the pass
	Hidden  int // detail nodes hidden after the pass
	Changed int // visibility writes performed
}

// Scaler toggles visibility of scene.TagDetail nodes by squared distance to
// the player. It never touches colliders or gameplay state.
type Scaler struct {
	graph        *scene.Graph
	hideDistance float32
	hideSq       float32
}

// NewScaler creates a scaler over graph. A non-positive hideDistance selects
// DefaultHideDistance.
func NewScaler(graph *scene.Graph, hideDistance float32) *Scaler {
	if !(hideDistance > 0) {
		hideDistance = DefaultHideDistance
	}
	return &Scaler{
		graph:        graph,
		hideDistance: hideDistance,
		hideSq:       hideDistance * hideDistance,
	}
}

// HideDistance returns the configured hide distance.
func (s *Scaler) HideDistance() float32 { return s.hideDistance }

// Update shows detail nodes within the hide distance of player and hides the
// rest. Nodes already in the wanted state are not written.
func (s *Scaler) Update(player wmath.Vec3) Result {
	var res Result
	s.graph.Each(scene.TagDetail, func(h scene.Handle) bool {
		pos, ok := s.graph.WorldPosition(h)
		if !ok {
			return true
		}
		visible := pos.DistanceSquared(player) <= s.hideSq
		if s.graph.SetVisible(h, visible) {
			res.Changed++
		}
		if visible {
			res.Visible++
		} else {
			res.Hidden++
		}
		return true
	})
	return res
}
