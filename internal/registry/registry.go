// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Game is the core interface that every blockfall mode implements.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "tetris", "tetris_sprint").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "Blockfall Marathon").
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after game over.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Input is abstracted to platform-level actions (HardDrop, Pause, etc.).
	// Returns the result of this tick including current game state.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Alias string // short CLI name, empty if none
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	aliases   = make(map[string]string) // alias -> game ID
	aliasOf   = make(map[string]string) // game ID -> alias
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	g := f()
	titles[id] = g.Title()
}

// RegisterAlias adds a short name for an already registered game, so that
// "sprint" can stand in for "tetris_sprint". Aliases are case-insensitive.
// Panics if the game is unknown, already has an alias, or the name is taken
// by another game or alias.
func RegisterAlias(alias, id string) {
	mu.Lock()
	defer mu.Unlock()

	alias = strings.ToLower(alias)
	if _, ok := factories[id]; !ok {
		panic(fmt.Sprintf("registry: alias %q for unknown game %q", alias, id))
	}
	if prev, ok := aliasOf[id]; ok {
		panic(fmt.Sprintf("registry: game %q already has alias %q", id, prev))
	}
	if _, ok := factories[alias]; ok {
		panic(fmt.Sprintf("registry: alias %q shadows a game ID", alias))
	}
	if other, ok := aliases[alias]; ok {
		panic(fmt.Sprintf("registry: alias %q already points to %q", alias, other))
	}

	aliases[alias] = id
	aliasOf[id] = alias
}

// Resolve maps a game ID or alias to the registered game ID.
func Resolve(name string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()

	if _, ok := factories[name]; ok {
		return name, true
	}
	id, ok := aliases[strings.ToLower(name)]
	return id, ok
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Alias: aliasOf[id],
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
