package level

import "errors"

var (
	ErrUnknownCode        = errors.New("unknown palette code")
	ErrUnknownType        = errors.New("unknown collision type")
	ErrEmptyCollision     = errors.New("body has no collision cells")
	ErrDuplicateBody      = errors.New("duplicate body id")
	ErrMissingID          = errors.New("body id is required")
	ErrUnsupportedFormat  = errors.New("unsupported level file format")
	ErrInvalidTileSize    = errors.New("tile size must not be negative")
	ErrDuplicatePaletteID = errors.New("palette code defined twice")
)
