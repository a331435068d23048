// Package scene defines the Scene interface for window screens.
//
// The title menu, the level in play and the end-of-level screens are all
// states of one session, so the window driver runs a single playing scene;
// the interface keeps the loop independent of it.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene represents a window screen.
//
// The game loop delegates Update and Draw calls to the current scene.
// Scene transitions are handled by returning a new Scene from Update.
type Scene interface {
	// Update advances the scene by dt milliseconds.
	// Returns the next scene if a transition is needed, nil to stay on current scene.
	// Returns an error to terminate the game.
	Update(dt float64) (next Scene, err error)

	// Draw renders the scene to the screen.
	Draw(screen *ebiten.Image)

	// OnEnter is called when entering this scene.
	OnEnter()

	// OnExit is called when leaving this scene, for saving state or
	// releasing resources.
	OnExit()
}
