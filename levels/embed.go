package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrLevelNotFound = errors.New("level not found")

// Layer names recognised by the spawner.
const (
	LayerCollision     = "Collision"
	LayerCollectibles  = "Collectibles"
	LayerEnemies       = "Enemies"
	LayerInteractables = "Interactables"
	LayerSpawnPoints   = "SpawnPoints"
)

// Level is a set of rectangular spawn regions grouped into named layers.
// Coordinates are pixels with Y pointing up.
type Level struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Layers []Layer `json:"layers"`
}

type Layer struct {
	Name    string   `json:"name"`
	Objects []Object `json:"objects"`
}

// Object is one rectangle; X and Y are its bottom-left corner.
type Object struct {
	Name   string         `json:"name,omitempty"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Props  map[string]any `json:"props,omitempty"`
}

// Layer returns the named layer, if present.
func (l *Level) Layer(name string) (*Layer, bool) {
	if l == nil {
		return nil, false
	}
	for i := range l.Layers {
		if l.Layers[i].Name == name {
			return &l.Layers[i], true
		}
	}
	return nil, false
}

// Center returns the rectangle's center in pixels.
func (o Object) Center() (float64, float64) {
	return o.X + o.Width/2, o.Y + o.Height/2
}

// String returns a property as a string. Numbers and bools are formatted.
func (o Object) String(key string) (string, bool) {
	v, ok := o.Props[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprint(t), true
	}
}

// Float returns a numeric property, accepting numbers or numeric strings.
func (o Object) Float(key string, def float64) float64 {
	v, ok := o.Props[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// Bool returns a boolean property, accepting bools or "true"/"false".
func (o Object) Bool(key string, def bool) bool {
	v, ok := o.Props[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

// Type returns the object's "type" property.
func (o Object) Type() string {
	s, _ := o.String("type")
	return s
}

// LoadLevelFromFS loads name (with or without the .json suffix) from the
// embedded levels.
func LoadLevelFromFS(name string) (*Level, error) {
	return LoadLevel(LevelsFS, name)
}

// LoadLevel loads a level descriptor from fsys.
func LoadLevel(fsys fs.FS, name string) (*Level, error) {
	file := name
	if path.Ext(file) != ".json" {
		file += ".json"
	}
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read level %q: %w", name, ErrLevelNotFound)
		}
		return nil, fmt.Errorf("read level %q: %w", name, err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level %q: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(file, ".json")
	}
	return &lvl, nil
}
