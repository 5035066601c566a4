package component

// Input stores per-frame input state for an entity. Move is a unit-or-less
// direction; the *Pressed flags are true only on the frame the key went down.
type Input struct {
	MoveX float64
	MoveY float64

	InteractPressed bool
	ShootPressed    bool
	RepairPressed   bool
	SpawnPressed    bool
}

var InputComponent = NewComponent[Input]()
