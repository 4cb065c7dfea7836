package server

import (
	"github.com/zeusync/voxelphys/internal/core/level"
	"github.com/zeusync/voxelphys/internal/core/scene"
)

// Message types on the websocket.
const (
	TypeHello    = "hello"
	TypeFrame    = "frame"
	TypeVelocity = "velocity"
	TypeError    = "error"
)

// Hello is the first message every client receives.
type Hello struct {
	Type       string `json:"type"`
	Level      string `json:"level"`
	TileWidth  int    `json:"tile_width"`
	TileHeight int    `json:"tile_height"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	// Tiles is indexed y*Width+x.
	Tiles []int `json:"tiles"`
}

// HelloFromLevel describes lvl's render tiles.
func HelloFromLevel(lvl *level.Level) Hello {
	w, h, _ := lvl.Tiles.Dimensions()
	return Hello{
		Type:       TypeHello,
		Level:      lvl.Name,
		TileWidth:  lvl.Tiles.TileWidth,
		TileHeight: lvl.Tiles.TileHeight,
		Width:      w,
		Height:     h,
		Tiles:      lvl.TileList(),
	}
}

// FrameMessage carries a scene frame to clients.
type FrameMessage struct {
	Type  string      `json:"type"`
	Frame scene.Frame `json:"frame"`
}

// ClientMessage is anything a client may send.
type ClientMessage struct {
	Type     string     `json:"type"`
	ID       string     `json:"id,omitempty"`
	Velocity [3]float64 `json:"velocity"`
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
