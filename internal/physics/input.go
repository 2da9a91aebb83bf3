package physics

import "mygame/football/internal/model"

// Input is one control sample for a human-driven player.
type Input struct {
	Up, Down, Left, Right bool

	Stick       model.Vec // analog vector, length <= 1
	StickActive bool

	Kick bool
}

// Direction is the requested heading scaled to at most unit length.
// Analog input wins over the digital keys.
func (in Input) Direction() model.Vec {
	if in.StickActive {
		if in.Stick.Len() > 1 {
			return in.Stick.Norm()
		}
		return in.Stick
	}
	var d model.Vec
	if in.Up {
		d.Y--
	}
	if in.Down {
		d.Y++
	}
	if in.Left {
		d.X--
	}
	if in.Right {
		d.X++
	}
	return d.Norm()
}

// Inputs maps an owner id to its latest sample. Missing owners idle.
type Inputs map[string]Input
