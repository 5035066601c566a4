package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// EnemyTag marks a hostile; Kind is the spawn archetype ("walker", "brute").
type EnemyTag struct {
	Kind string
}

var EnemyTagComponent = NewComponent[EnemyTag]()

// Invisible hides an entity until a reveal effect marks it Revealed.
type Invisible struct{}

var InvisibleComponent = NewComponent[Invisible]()
